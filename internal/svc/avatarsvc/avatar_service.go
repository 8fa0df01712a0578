package avatarsvc

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"golang.org/x/image/draw"

	"github.com/spillhus/gamesvc/internal/infra/logging"
)

// ErrUnknownInterpolator is returned when an unsupported scaling algorithm is configured.
var ErrUnknownInterpolator = errors.New("unknown interpolator")

// gridSize is the identicon pattern resolution before scaling.
const gridSize = 5

//nolint:gochecknoglobals
var interpolMap = map[string]draw.Interpolator{
	"nearestneighbor": draw.NearestNeighbor,
	"catmullrom":      draw.CatmullRom,
	"bilinear":        draw.BiLinear,
	"approxbilinear":  draw.ApproxBiLinear,
}

// AvatarConfig holds configuration parameters for the avatar service.
type AvatarConfig struct {
	// Interpolator specifies the scaling algorithm used to blow the identicon
	// pattern up to the requested size. Valid values are: "nearestneighbor",
	// "catmullrom", "bilinear", "approxbilinear". Nearest neighbor keeps the
	// blocky identicon look.
	Interpolator string `env:"INTERPOLATOR" envDefault:"nearestneighbor"`

	// DefaultSize is the avatar edge length in pixels when no size is requested
	DefaultSize int `env:"DEFAULT_SIZE" envDefault:"128"`

	// MinSize and MaxSize clamp the requested avatar size
	MinSize int `env:"MIN_SIZE" envDefault:"16"`
	MaxSize int `env:"MAX_SIZE" envDefault:"512"`
}

// AvatarService renders deterministic identicon avatars for usernames.
// Avatars are pure functions of the username; no store access is involved.
type AvatarService struct {
	Config AvatarConfig
	Log    logging.Logger
}

// NewAvatarService creates a new AvatarService with the given configuration.
// Returns an error if the configured interpolator is unknown.
func NewAvatarService(cfg AvatarConfig) (*AvatarService, error) {
	if _, ok := interpolMap[strings.ToLower(cfg.Interpolator)]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInterpolator, cfg.Interpolator)
	}

	return &AvatarService{
		Config: cfg,
		Log:    logging.GetLogger("svc.avatarsvc.avatar_service"),
	}, nil
}

// Render produces a PNG identicon for the username at the given edge length.
// The same username always yields the same image; size is clamped to the
// configured bounds and falls back to the default when non-positive.
func (s *AvatarService) Render(username string, size int) ([]byte, error) {
	switch {
	case size <= 0:
		size = s.Config.DefaultSize
	case size < s.Config.MinSize:
		size = s.Config.MinSize
	case size > s.Config.MaxSize:
		size = s.Config.MaxSize
	}

	pattern := renderPattern(username)

	bitmap := image.NewRGBA(image.Rect(0, 0, size, size))
	interpol := interpolMap[strings.ToLower(s.Config.Interpolator)]
	interpol.Scale(bitmap, bitmap.Bounds(), pattern, pattern.Bounds(), draw.Over, nil)

	var buffer bytes.Buffer

	if err := png.Encode(&buffer, bitmap); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return buffer.Bytes(), nil
}

// renderPattern derives a 5x5 horizontally mirrored pattern from a digest of
// the username. The first digest bytes pick the foreground color; the rest
// toggle cells.
func renderPattern(username string) *image.RGBA {
	digest := sha256.Sum256([]byte(username))

	foreground := color.RGBA{
		R: 0x40 + digest[0]%0xA0,
		G: 0x40 + digest[1]%0xA0,
		B: 0x40 + digest[2]%0xA0,
		A: 0xFF,
	}
	background := color.RGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF}

	pattern := image.NewRGBA(image.Rect(0, 0, gridSize, gridSize))

	for y := range gridSize {
		for x := range gridSize {
			// Mirror the left half onto the right.
			column := x
			if column > gridSize/2 {
				column = gridSize - 1 - x
			}

			bit := digest[3+y]>>uint(column)&1 == 1

			if bit {
				pattern.SetRGBA(x, y, foreground)
			} else {
				pattern.SetRGBA(x, y, background)
			}
		}
	}

	return pattern
}
