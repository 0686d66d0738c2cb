package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	HeroImageURL string `json:"heroImageUrl" validate:"required,url"`
	HeroPrompt   string `json:"heroPrompt" validate:"required"`
	NumImages    int    `json:"numImages" validate:"omitempty,min=6,max=9"`
}

func TestValidatorUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Struct(sampleRequest{HeroImageURL: "not a url", NumImages: 12})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "must be a valid URL", fields["heroImageUrl"])
	assert.Equal(t, "is required", fields["heroPrompt"])
	assert.Equal(t, "must be at most 9", fields["numImages"])
	assert.Equal(t, "heroImageUrl must be a valid URL", FirstFieldError(err))
}

func TestValidatorAcceptsValid(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Struct(sampleRequest{HeroImageURL: "https://img/hero.png", HeroPrompt: "p"}))
}
