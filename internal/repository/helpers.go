package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

const uniqueViolation = "23505"

// isUniqueViolation checks if the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// toVector converts an embedding to the pgvector column type
func toVector(embedding []float64) pgvector.Vector {
	floats := make([]float32, len(embedding))
	for i, v := range embedding {
		floats[i] = float32(v)
	}
	return pgvector.NewVector(floats)
}

// fromVector converts a scanned pgvector column back to float64
func fromVector(vec *pgvector.Vector) []float64 {
	if vec == nil || vec.Slice() == nil {
		return nil
	}

	out := make([]float64, len(vec.Slice()))
	for i, v := range vec.Slice() {
		out[i] = float64(v)
	}
	return out
}
