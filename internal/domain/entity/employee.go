package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Employee struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Email       string             `json:"email" bson:"email"`
	DOB         time.Time          `json:"dob" bson:"dob"`
	Designation string             `json:"designation" bson:"designation"`
	Education   string             `json:"education" bson:"education"`
}
