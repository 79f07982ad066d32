package handlers

import (
	"net/url"
	"strconv"
	"time"

	config "github.com/anjiri1684/torah_tutor/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

// Upload folders by purpose. Teachers upload teaching credentials for the
// approval review; everyone may upload an avatar.
var uploadFolders = map[string]string{
	"avatar":     "torah_tutor_avatars",
	"credential": "torah_tutor_credentials",
}

// GenerateUploadSignature signs a direct browser upload to Cloudinary so the
// API secret never leaves the server.
func GenerateUploadSignature(c *fiber.Ctx) error {
	folder, ok := uploadFolders[c.Query("purpose", "avatar")]
	if !ok {
		return badRequest("purpose must be avatar or credential")
	}

	cloudinaryURL := config.Config("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "uploads are not configured")
	}
	parsed, err := url.Parse(cloudinaryURL)
	if err != nil {
		return err
	}
	secret, _ := parsed.User.Password()

	params, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return err
	}
	timestamp := time.Now().Unix()
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(params, secret)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"api_key":   cld.Config.Cloud.APIKey,
		"folder":    folder,
	})
}
