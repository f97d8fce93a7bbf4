package routes

import (
	"homestay-server/models"
	"homestay-server/services"
	"homestay-server/storage"
	"homestay-server/utils"

	"github.com/kataras/iris/v12"
)

type CreateImageInput struct {
	URL     string `json:"url" validate:"required,url,max=512"`
	Caption string `json:"caption" validate:"max=256"`
}

func CreatePropertyImage(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)
	actor := actorFromCtx(ctx)

	var property models.Property
	if err := storage.DB.First(&property, propertyID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !services.CanAccess(actor, services.ActionMutateProperty, services.Resource{OwnerID: property.HostID}) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	image := models.PropertyImage{
		PropertyID: property.ID,
		URL:        input.URL,
		Caption:    input.Caption,
	}
	if err := storage.DB.Create(&image).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	invalidatePropertyCache()
	ctx.JSON(&image)
}

func ListPropertyImages(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)

	var images []models.PropertyImage
	if err := storage.DB.Where("property_id = ?", propertyID).Find(&images).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(images)
}

func DeletePropertyImage(ctx iris.Context) {
	imageID := ctx.Params().GetUintDefault("id", 0)
	actor := actorFromCtx(ctx)

	var image models.PropertyImage
	if err := storage.DB.First(&image, imageID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, image.PropertyID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !services.CanAccess(actor, services.ActionMutateProperty, services.Resource{OwnerID: property.HostID}) {
		utils.CreateForbidden(ctx)
		return
	}

	if err := storage.DB.Delete(&image).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	invalidatePropertyCache()
	ctx.JSON(iris.Map{"message": "Image deleted"})
}
