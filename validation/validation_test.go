package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldPaths(t *testing.T, err error) []string {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "Validation error", appErr.Message)

	paths := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		paths = append(paths, f.Path)
	}
	return paths
}

func TestSchemasCompile(t *testing.T) {
	v, err := New()
	require.NoError(t, err)
	for _, name := range []string{Register, Login, Refresh, Profile, Availability, Booking, BookingStatus, Review, PaymentIntent, Favorite} {
		assert.Contains(t, v.schemas, name)
	}
}

func TestValidate(t *testing.T) {
	v := MustNew()
	ctx := context.Background()

	tests := []struct {
		name      string
		schema    string
		body      string
		wantPaths []string
	}{
		{
			name:   "valid booking",
			schema: Booking,
			body:   `{"amigoId":1,"date":"2030-05-20T00:00:00Z","startTime":"2030-05-20T14:00:00Z","endTime":"2030-05-20T15:00:00Z","location":"Paulista"}`,
		},
		{
			name:      "booking missing location",
			schema:    Booking,
			body:      `{"amigoId":1,"date":"2030-05-20T00:00:00Z","startTime":"2030-05-20T14:00:00Z","endTime":"2030-05-20T15:00:00Z"}`,
			wantPaths: []string{"location"},
		},
		{
			name:      "booking with string amigo id",
			schema:    Booking,
			body:      `{"amigoId":"1","date":"2030-05-20T00:00:00Z","startTime":"2030-05-20T14:00:00Z","endTime":"2030-05-20T15:00:00Z","location":"Paulista"}`,
			wantPaths: []string{"amigoId"},
		},
		{
			name:      "empty login",
			schema:    Login,
			body:      ``,
			wantPaths: []string{"email", "password"},
		},
		{
			name:      "short password",
			schema:    Register,
			body:      `{"email":"new@example.com","username":"newbie","password":"123","name":"New"}`,
			wantPaths: []string{"password"},
		},
		{
			name:      "rating out of range",
			schema:    Review,
			body:      `{"bookingId":1,"revieweeId":2,"rating":6}`,
			wantPaths: []string{"rating"},
		},
		{
			name:      "unknown status",
			schema:    BookingStatus,
			body:      `{"status":"archived"}`,
			wantPaths: []string{"status"},
		},
		{
			name:      "malformed json",
			schema:    Favorite,
			body:      `{"amigoId":`,
			wantPaths: []string{"body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.schema, []byte(tt.body))
			if len(tt.wantPaths) == 0 {
				assert.NoError(t, err)
				return
			}
			paths := fieldPaths(t, err)
			for _, want := range tt.wantPaths {
				assert.Contains(t, paths, want)
			}
		})
	}
}

func TestValidateUnknownSchema(t *testing.T) {
	err := MustNew().Validate(context.Background(), "nope", []byte(`{}`))
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeInternal))
}
