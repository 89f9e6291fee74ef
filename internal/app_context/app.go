package appcontext

import (
	"github.com/formadoc/FormaSign/internal/auth"
	"github.com/formadoc/FormaSign/internal/cache"
	"github.com/formadoc/FormaSign/internal/config"
	filestorage "github.com/formadoc/FormaSign/internal/file_storage"
	"github.com/formadoc/FormaSign/internal/repository"
	"github.com/formadoc/FormaSign/internal/signature"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Repository provides access to data storage operations.
	Repository *repository.Repository

	// JWTService verifies the bearer tokens issued by the main platform.
	JWTService auth.JWTInterface

	S3      *minio.Client
	Storage *filestorage.ObjectStorage

	// Cache is the in-memory URL cache; Mirror its durable local twin.
	Cache  *cache.URLCache
	Mirror *cache.Mirror

	Resolver  *signature.Resolver
	Persister *signature.Persister
	Sharer    *signature.Sharer
}
