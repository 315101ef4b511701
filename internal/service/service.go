package service

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors shared by every service.
var (
	ErrInvalidID        = errors.New("invalid id format")
	ErrPermissionDenied = errors.New("permission denied")
)

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
