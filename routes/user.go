package routes

import (
	"homestay-server/models"
	"homestay-server/storage"
	"homestay-server/utils"

	"github.com/kataras/iris/v12"
)

func GetProfile(ctx iris.Context) {
	actor := actorFromCtx(ctx)

	var user models.User
	if err := storage.DB.First(&user, actor.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(&user)
}

type UpdateProfileInput struct {
	FirstName   string `json:"firstName" validate:"omitempty,max=256"`
	LastName    string `json:"lastName" validate:"omitempty,max=256"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=32"`
	AvatarURL   string `json:"avatarURL" validate:"omitempty,url"`
}

func UpdateProfile(ctx iris.Context) {
	actor := actorFromCtx(ctx)

	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, actor.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.FirstName != "" {
		updates["first_name"] = input.FirstName
	}
	if input.LastName != "" {
		updates["last_name"] = input.LastName
	}
	if input.PhoneNumber != "" {
		updates["phone_number"] = input.PhoneNumber
	}
	if input.AvatarURL != "" {
		updates["avatar_url"] = input.AvatarURL
	}

	if len(updates) > 0 {
		if err := storage.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}
	ctx.JSON(&user)
}
