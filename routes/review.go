package routes

import (
	"homestay-server/utils"

	"github.com/kataras/iris/v12"
)

type CreateReviewInput struct {
	Stars   int    `json:"stars" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=512"`
}

func CreateReview(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	review, err := reviewService.Create(actorFromCtx(ctx), propertyID, input.Stars, input.Comment)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(review)
}

// ListPropertyReviews returns a property's reviews together with the average
// rating and whether the caller may still leave one.
func ListPropertyReviews(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)
	actor := actorFromCtx(ctx)

	reviews, average, err := reviewService.ListByProperty(propertyID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	canReview, err := reviewService.CanReview(actor.ID, propertyID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"reviews":       reviews,
		"averageRating": average,
		"reviewCount":   len(reviews),
		"canReview":     canReview,
	})
}

func UpdateReview(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	review, err := reviewService.Update(actorFromCtx(ctx), id, input.Stars, input.Comment)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(review)
}

func DeleteReview(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	if err := reviewService.Delete(actorFromCtx(ctx), id); err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"message": "Review deleted"})
}
