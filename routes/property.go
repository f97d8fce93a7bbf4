package routes

import (
	"context"
	"encoding/json"
	"time"

	"homestay-server/models"
	"homestay-server/services"
	"homestay-server/storage"
	"homestay-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var bgContext = context.Background()

const (
	propertyListCacheKey = "properties:approved"
	searchCachePrefix    = "properties:search:"
	propertyCacheTTL     = time.Minute
)

type PropertyInput struct {
	Title        string   `json:"title" validate:"required,max=64"`
	Description  string   `json:"description" validate:"max=2000"`
	City         string   `json:"city" validate:"required"`
	Address      string   `json:"address" validate:"required"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=apartment house studio"`
	Rules        string   `json:"rules" validate:"omitempty,oneof=no_smoking pets_allowed"`
	NightlyPrice float64  `json:"nightlyPrice" validate:"required,gt=0"`
	MaxGuests    int      `json:"maxGuests" validate:"required,gte=1,lte=16"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int      `json:"bathrooms" validate:"gte=0"`
	Amenities    []string `json:"amenities"`
}

func CreateProperty(ctx iris.Context) {
	actor := actorFromCtx(ctx)
	if !services.CanAccess(actor, services.ActionCreateProperty, services.Resource{}) {
		utils.CreateForbidden(ctx)
		return
	}

	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	property := propertyFromInput(&input)
	property.HostID = actor.ID

	if err := storage.DB.Create(property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	invalidatePropertyCache()
	ctx.JSON(property)
}

func propertyFromInput(input *PropertyInput) *models.Property {
	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)

	return &models.Property{
		Title:        input.Title,
		Description:  input.Description,
		City:         input.City,
		Address:      input.Address,
		PropertyType: input.PropertyType,
		Rules:        input.Rules,
		NightlyPrice: input.NightlyPrice,
		MaxGuests:    input.MaxGuests,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		Amenities:    datatypes.JSON(amenitiesJSON),
	}
}

// GetProperties lists approved, active listings. The result is cached in
// redis for a minute and invalidated on any listing mutation.
func GetProperties(ctx iris.Context) {
	if cached := cacheGet(propertyListCacheKey); cached != nil {
		ctx.ContentType("application/json")
		ctx.Write(cached)
		return
	}

	var properties []models.Property
	if err := storage.DB.Preload("Images").
		Where("is_approved = ? AND is_active = ?", true, true).
		Order("created_at DESC").
		Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	cacheSetJSON(propertyListCacheKey, properties)
	ctx.JSON(properties)
}

func GetProperty(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var property models.Property
	if err := storage.DB.Preload("Images").Preload("Host").First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(&property)
}

func GetPropertiesByOwner(ctx iris.Context) {
	ownerID := ctx.Params().GetUintDefault("id", 0)

	var properties []models.Property
	if err := storage.DB.Preload("Images").
		Where("host_id = ?", ownerID).
		Order("created_at DESC").
		Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(properties)
}

// UpdateProperty lets the owner (or an admin) replace a listing's fields.
// Inputs are re-validated exactly as on creation.
func UpdateProperty(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	actor := actorFromCtx(ctx)

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if !services.CanAccess(actor, services.ActionMutateProperty, services.Resource{OwnerID: property.HostID}) {
		utils.CreateForbidden(ctx)
		return
	}

	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updated := propertyFromInput(&input)
	updated.ID = property.ID
	updated.HostID = property.HostID
	updated.IsApproved = property.IsApproved
	updated.IsActive = property.IsActive

	if err := storage.DB.Model(&property).Updates(updated).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	invalidatePropertyCache()
	ctx.JSON(&property)
}

func DeleteProperty(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	if err := adminService.DeleteProperty(actorFromCtx(ctx), id); err != nil {
		handleServiceError(err, ctx)
		return
	}

	invalidatePropertyCache()
	ctx.JSON(iris.Map{"message": "Property deleted"})
}

// SearchProperties filters approved listings by city, price band, type and
// capacity, with ordering and offset pagination. Responses are cached per
// query for a minute.
func SearchProperties(ctx iris.Context) {
	cacheKey := searchCachePrefix + ctx.Request().URL.RawQuery
	if cached := cacheGet(cacheKey); cached != nil {
		ctx.ContentType("application/json")
		ctx.Write(cached)
		return
	}

	query := storage.DB.Model(&models.Property{}).
		Preload("Images").
		Where("is_approved = ? AND is_active = ?", true, true)

	if city := ctx.URLParam("city"); city != "" {
		query = query.Where("lower(city) LIKE lower(?)", "%"+city+"%")
	}
	if minPrice := ctx.URLParamFloat64Default("minPrice", 0); minPrice > 0 {
		query = query.Where("nightly_price >= ?", minPrice)
	}
	if maxPrice := ctx.URLParamFloat64Default("maxPrice", 0); maxPrice > 0 {
		query = query.Where("nightly_price <= ?", maxPrice)
	}
	if propertyType := ctx.URLParam("propertyType"); propertyType != "" {
		query = query.Where("property_type = ?", propertyType)
	}
	if minGuests := ctx.URLParamIntDefault("minGuests", 0); minGuests > 0 {
		query = query.Where("max_guests >= ?", minGuests)
	}

	switch ctx.URLParam("orderBy") {
	case "price_asc":
		query = query.Order("nightly_price ASC")
	case "price_desc":
		query = query.Order("nightly_price DESC")
	case "date_desc":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("id ASC")
	}

	limit := ctx.URLParamIntDefault("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := ctx.URLParamIntDefault("offset", 0)
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var properties []models.Property
	if err := query.Limit(limit).Offset(offset).Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	payload := iris.Map{
		"data":   properties,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}
	cacheSetJSON(cacheKey, payload)
	ctx.JSON(payload)
}

func cacheGet(key string) []byte {
	if storage.Redis == nil {
		return nil
	}
	data, err := storage.Redis.Get(bgContext, key).Bytes()
	if err != nil {
		return nil
	}
	return data
}

func cacheSetJSON(key string, value interface{}) {
	if storage.Redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	storage.Redis.Set(bgContext, key, data, propertyCacheTTL)
}

// invalidatePropertyCache drops the cached listing page and any cached
// search results whose keys are enumerable by prefix scan.
func invalidatePropertyCache() {
	if storage.Redis == nil {
		return
	}
	storage.Redis.Del(bgContext, propertyListCacheKey)

	iter := storage.Redis.Scan(bgContext, 0, searchCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(bgContext) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		storage.Redis.Del(bgContext, keys...)
	}
}
