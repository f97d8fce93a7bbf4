package routes

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"homestay-server/models"
	"homestay-server/storage"
	"homestay-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterUserInput struct {
	FirstName string `json:"firstName" validate:"required,max=256"`
	LastName  string `json:"lastName" validate:"required,max=256"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=256"`
	Role      string `json:"role" validate:"omitempty,oneof=guest host"`
}

func Register(ctx iris.Context) {
	var input RegisterUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	email := strings.ToLower(input.Email)

	var existing models.User
	if err := storage.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	hashed, err := hashAndSaltPassword(input.Password)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleGuest
	}

	user := models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     email,
		Password:  hashed,
		Role:      role,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnUserWithTokens(&user, ctx)
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Login(ctx iris.Context) {
	var input LoginUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid email or password", ctx)
		return
	}

	if user.IsActive != nil && !*user.IsActive {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Account is blocked", ctx)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid email or password", ctx)
		return
	}

	returnUserWithTokens(&user, ctx)
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshTokens rotates a refresh token: the presented token is verified,
// consumed, and a fresh pair is issued.
func RefreshTokens(ctx iris.Context) {
	var input RefreshTokenInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	verified, err := verifier.VerifyToken([]byte(input.RefreshToken))
	if err != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid refresh token", ctx)
		return
	}

	var stored models.RefreshToken
	if err := storage.DB.Where("token = ?", input.RefreshToken).First(&stored).Error; err != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Refresh token revoked", ctx)
		return
	}

	userID, err := strconv.ParseUint(verified.StandardClaims.Subject, 10, 32)
	if err != nil || uint(userID) != stored.UserID {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid refresh token", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, stored.UserID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Unscoped().Delete(&stored).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnUserWithTokens(&user, ctx)
}

// Logout revokes the presented refresh token.
func Logout(ctx iris.Context) {
	var input RefreshTokenInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	res := storage.DB.Unscoped().Where("token = ?", input.RefreshToken).Delete(&models.RefreshToken{})
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Unknown refresh token", ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Logged out"})
}

func hashAndSaltPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func returnUserWithTokens(user *models.User, ctx iris.Context) {
	tokenPair, err := utils.CreateTokenPair(user)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"user":         user,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
