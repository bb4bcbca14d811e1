package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/KasumiMercury/flock-watch/internal/localtime"
)

type DisplayConfig struct {
	Timezone  string
	DSTAdjust bool
}

func LoadDisplayConfig() (*DisplayConfig, error) {
	dstAdjust := true
	if raw := os.Getenv("DISPLAY_DST_ADJUST"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: DISPLAY_DST_ADJUST=%q", ErrInvalidBool, raw)
		}
		dstAdjust = v
	}

	return &DisplayConfig{
		Timezone:  getEnvOrDefault("DISPLAY_TIMEZONE", localtime.DefaultRegion),
		DSTAdjust: dstAdjust,
	}, nil
}
