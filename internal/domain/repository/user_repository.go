package repository

import (
	"context"
	"errors"

	"github.com/employee-manager/internal/domain/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by every repository when a lookup resolves to no
// record, so services never depend on driver-specific sentinels.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByResetOTP resolves the short numeric reset code issued by a
	// forgot-password request.
	FindByResetOTP(ctx context.Context, otp string) (*entity.User, error)
	// FindByLinkToken resolves the opaque reset-link credential issued
	// alongside the OTP.
	FindByLinkToken(ctx context.Context, token string) (*entity.User, error)
}
