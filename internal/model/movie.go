// Package model defines the documents and projections exchanged between the
// repositories and the HTTP handlers.  Full records are opaque documents; only
// the fields this service inspects or projects get a typed representation.
package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Document is an opaque stored record returned as-is to the client.  It is
// bson.M so nested sub-documents decode as maps rather than ordered pairs.
type Document = primitive.M

// MovieTitle is the projection returned by the movie list endpoint.
type MovieTitle struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Title string             `bson:"title" json:"title"`
}

// MovieGenres is the projection returned by the genre search.
type MovieGenres struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Title  string             `bson:"title" json:"title"`
	Genres []string           `bson:"genres" json:"genres"`
}

// MovieUpdate holds the only movie fields a client may change.  Plot is a
// pointer so an omitted plot leaves the stored value untouched.
type MovieUpdate struct {
	Title string  `json:"title"`
	Plot  *string `json:"plot"`
}

// Created is the body returned after a successful insert.
type Created struct {
	NewObjectID primitive.ObjectID `json:"newObjectId"`
	Message     string             `json:"message"`
}

// Deleted is the body returned after a successful delete.
type Deleted struct {
	Message string `json:"message"`
}
