// internal/domain/product/entity_test.go
package product

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMIME(t *testing.T) {
	cases := []struct {
		in   string
		want MediaType
		err  error
	}{
		{"image/jpeg", MediaTypeImage, nil},
		{"image/png", MediaTypeImage, nil},
		{"image/gif", MediaTypeImage, nil},
		{"image/bmp", MediaTypeImage, nil},
		{"image/tiff", MediaTypeImage, nil},
		{"image/webp", MediaTypeImage, nil},
		{"video/mp4", MediaTypeVideo, nil},
		{"video/webm", MediaTypeVideo, nil},
		{"video/ogg", MediaTypeVideo, nil},
		{"video/x-msvideo", MediaTypeVideo, nil},
		{"video/quicktime", MediaTypeVideo, nil},
		{"video/mpeg", MediaTypeVideo, nil},
		{"IMAGE/JPEG", MediaTypeImage, nil},
		{" image/png ", MediaTypeImage, nil},
		{"image/png; charset=binary", MediaTypeImage, nil},
		{"image/svg+xml", "", ErrUnsupportedMediaType},
		{"application/pdf", "", ErrUnsupportedMediaType},
		{"video/x-flv", "", ErrUnsupportedMediaType},
		{"", "", ErrUnsupportedMediaType},
	}
	for _, c := range cases {
		got, err := ClassifyMIME(c.in)
		if c.err != nil {
			assert.ErrorIs(t, err, c.err, c.in)
			continue
		}
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func validMedia() Media {
	return Media{Data: "aGVsbG8=", Type: MediaTypeImage, Status: MediaStatusPending}
}

func TestNewProduct(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("ok", func(t *testing.T) {
		p, err := New("prd-1", "usr-1", " Lamp ", []string{" decor ", "", "home"}, 1200, "a lamp", validMedia(), now)
		require.NoError(t, err)
		assert.Equal(t, "Lamp", p.Name)
		assert.Equal(t, []string{"decor", "home"}, p.Tags)
		assert.Equal(t, MediaStatusPending, p.Media.Status)
		assert.Nil(t, p.Media.URL)
		assert.Nil(t, p.UpdatedAt)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := New("", "u", "n", []string{"t"}, 1, "d", validMedia(), now)
		assert.ErrorIs(t, err, ErrInvalidPayload)

		_, err = New("p", "u", "n", nil, 1, "d", validMedia(), now)
		assert.ErrorIs(t, err, ErrInvalidPayload)

		_, err = New("p", "u", "n", []string{"t"}, -5, "d", validMedia(), now)
		assert.ErrorIs(t, err, ErrInvalidPayload)

		m := validMedia()
		m.Type = MediaType("audio")
		_, err = New("p", "u", "n", []string{"t"}, 1, "d", m, now)
		assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	})
}

func TestMarkMedia(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	later := now.Add(time.Second)

	p, err := New("prd-1", "usr-1", "Lamp", []string{"decor"}, 1200, "a lamp", validMedia(), now)
	require.NoError(t, err)

	t.Run("ready", func(t *testing.T) {
		q := p
		require.NoError(t, q.MarkMediaReady("https://cdn.example.com/products/1_lamp.png", later))
		require.NotNil(t, q.Media.URL)
		assert.Equal(t, MediaStatusReady, q.Media.Status)
		require.NotNil(t, q.UpdatedAt)
		assert.Equal(t, later, *q.UpdatedAt)
	})

	t.Run("ready rejects empty url", func(t *testing.T) {
		q := p
		assert.ErrorIs(t, q.MarkMediaReady("  ", later), ErrInvalidPayload)
		assert.Equal(t, MediaStatusPending, q.Media.Status)
	})

	t.Run("failed keeps placeholder", func(t *testing.T) {
		q := p
		q.MarkMediaFailed(later)
		assert.Equal(t, MediaStatusFailed, q.Media.Status)
		assert.Nil(t, q.Media.URL)
		assert.Equal(t, "aGVsbG8=", q.Media.Data)
	})
}

func TestNewMediaMetadata(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	m, err := NewMediaMetadata("prd-1", "products/1_x.png", "https://cdn.example.com/x.png", MediaTypeImage, now)
	require.NoError(t, err)
	assert.Equal(t, "prd-1", m.ProductID)
	assert.Equal(t, "products/1_x.png", m.ObjectKey)

	_, err = NewMediaMetadata("", "k", "https://cdn.example.com/x.png", MediaTypeImage, now)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = NewMediaMetadata("prd-1", "", "u", MediaTypeImage, now)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = NewMediaMetadata("prd-1", "k", "", MediaTypeImage, now)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = NewMediaMetadata("prd-1", "k", "u", MediaType("audio"), now)
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
}
