package interfaces

import (
	"context"

	"github.com/abdelwahab/campuscard-api/internal/dto"
)

// FileStorage stores user-owned documents under id-scoped object keys
// and returns publicly resolvable URLs.
type FileStorage interface {
	UploadProfilePhoto(ctx context.Context, userID uint, file dto.UploadFile) (string, error)
	UploadNationalIDScan(ctx context.Context, userID uint, file dto.UploadFile) (string, error)
	Delete(ctx context.Context, objectURL string) error
}
