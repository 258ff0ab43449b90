package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the credential record behind every auth flow. Secret-bearing
// fields are excluded from JSON so they never leak into a response body.
type User struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                 string             `json:"name" bson:"name"`
	Email                string             `json:"email" bson:"email"`
	Password             string             `json:"-" bson:"password"`
	Country              string             `json:"country" bson:"country"`
	MFASecret            string             `json:"-" bson:"mfaSecret"`
	ResetPasswordToken   string             `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires time.Time          `json:"-" bson:"resetPasswordExpires,omitempty"`
	Token                string             `json:"-" bson:"token,omitempty"`
	IsVerified           bool               `json:"isVerified" bson:"isVerified"`
	QRCodeURL            string             `json:"qrCodeUrl,omitempty" bson:"qrCodeUrl,omitempty"`
}

// ClearResetSession removes both reset credentials and their shared expiry.
// Consuming either credential must invalidate the other, so the three fields
// only ever change together.
func (u *User) ClearResetSession() {
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = time.Time{}
	u.Token = ""
}
