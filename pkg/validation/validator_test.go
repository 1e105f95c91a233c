package validation

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

func TestToDetailsFieldErrorsUseJSONNames(t *testing.T) {
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(sampleRequest{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "min length 8", details["password"])
}

func TestToDetailsInvalidJSON(t *testing.T) {
	var dst sampleRequest

	err := json.Unmarshal([]byte(`{"email":`), &dst)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{"email": 42}`), &dst)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestToDetailsNilAndUnknown(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
}
