package utils

import (
	"campusconnect/config"
	"campusconnect/services/storage"
)

// Cloudinary builds the campaign image store from config.AppConfig.
func Cloudinary() (*storage.CloudinaryStore, error) {
	return storage.NewCloudinaryStore(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
	)
}
