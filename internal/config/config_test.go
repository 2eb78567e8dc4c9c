package config

import (
	"math"
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*Config) bool
	}{
		{
			name: "loads explicit values",
			envVars: map[string]string{
				"PORT":                    "8080",
				"ENV":                     "production",
				"DATABASE_URL":            "postgres://localhost/test",
				"FACE_PROVIDER":           "rekognition",
				"MATCH_THRESHOLD":         "0.7",
				"LIVENESS_FAILURE_POLICY": "reweight",
				"RATE_LIMIT_WINDOW":       "30s",
				"AUTO_MIGRATE":            "true",
			},
			check: func(c *Config) bool {
				return c.Port == 8080 &&
					c.Environment == "production" &&
					c.DatabaseURL == "postgres://localhost/test" &&
					c.FaceProvider == "rekognition" &&
					c.MatchThreshold == 0.7 &&
					c.LivenessFailurePolicy == "reweight" &&
					c.RateLimitWindow == 30*time.Second &&
					c.AutoMigrate
			},
		},
		{
			name:    "uses defaults when nothing is set",
			envVars: map[string]string{},
			check: func(c *Config) bool {
				return c.Port == 3000 &&
					c.Environment == "development" &&
					c.FaceProvider == "deepface" &&
					c.DeepFaceModel == "ArcFace" &&
					c.MatchThreshold == 0.6 &&
					c.IdentifyThreshold == 0.5 &&
					c.LivenessThreshold == 0.5 &&
					c.LivenessFailurePolicy == "neutral" &&
					c.LivenessTextureNorm == 500 &&
					c.LivenessExpressionNorm == 10 &&
					c.LivenessSkinBandLow == 100 &&
					c.LivenessSkinBandHigh == 135 &&
					c.RateLimitMax == 120 &&
					c.RateLimitWindow == time.Minute &&
					!c.AutoMigrate &&
					!c.HasDatabase()
			},
		},
		{
			name:    "fails on malformed number",
			envVars: map[string]string{"MATCH_THRESHOLD": "high"},
			wantErr: true,
		},
		{
			name:    "fails on threshold out of range",
			envVars: map[string]string{"LIVENESS_THRESHOLD": "1.5"},
			wantErr: true,
		},
		{
			name:    "fails on NaN threshold",
			envVars: map[string]string{"IDENTIFY_THRESHOLD": "NaN"},
			wantErr: true,
		},
		{
			name:    "fails on NaN normalizer",
			envVars: map[string]string{"LIVENESS_TEXTURE_NORM": "NaN"},
			wantErr: true,
		},
		{
			name: "parses liveness weights",
			envVars: map[string]string{
				"LIVENESS_WEIGHTS": "eye_blink:0.3,texture:0.2,frequency:0.2,color:0.2,expression:0.1",
			},
			check: func(c *Config) bool {
				return len(c.LivenessWeights) == 5 &&
					c.LivenessWeights["eye_blink"] == 0.3 &&
					c.LivenessWeights["expression"] == 0.1
			},
		},
		{
			name:    "fails on malformed liveness weights",
			envVars: map[string]string{"LIVENESS_WEIGHTS": "eye_blink=0.3"},
			wantErr: true,
		},
		{
			name:    "fails on inverted skin band",
			envVars: map[string]string{"LIVENESS_SKIN_BAND_LOW": "140"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Load() config check failed, got: %+v", cfg)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			MatchThreshold:         0.6,
			IdentifyThreshold:      0.5,
			LivenessThreshold:      0.5,
			LivenessTextureNorm:    500,
			LivenessExpressionNorm: 10,
			LivenessSkinBandLow:    100,
			LivenessSkinBandHigh:   135,
			RateLimitMax:           10,
			RateLimitWindow:        time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"negative match threshold", func(c *Config) { c.MatchThreshold = -0.1 }, true},
		{"identify threshold above one", func(c *Config) { c.IdentifyThreshold = 1.01 }, true},
		{"NaN identify threshold", func(c *Config) { c.IdentifyThreshold = math.NaN() }, true},
		{"NaN liveness threshold", func(c *Config) { c.LivenessThreshold = math.NaN() }, true},
		{"NaN match threshold", func(c *Config) { c.MatchThreshold = math.NaN() }, true},
		{"zero texture norm", func(c *Config) { c.LivenessTextureNorm = 0 }, true},
		{"NaN texture norm", func(c *Config) { c.LivenessTextureNorm = math.NaN() }, true},
		{"infinite expression norm", func(c *Config) { c.LivenessExpressionNorm = math.Inf(1) }, true},
		{"zero expression norm", func(c *Config) { c.LivenessExpressionNorm = 0 }, true},
		{"band past 256", func(c *Config) { c.LivenessSkinBandHigh = 300 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimitMax = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"development", "development", true},
		{"production", "production", false},
		{"staging", "staging", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Environment: tt.env}
			if got := c.IsDevelopment(); got != tt.want {
				t.Errorf("IsDevelopment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"production", "production", true},
		{"development", "development", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Environment: tt.env}
			if got := c.IsProduction(); got != tt.want {
				t.Errorf("IsProduction() = %v, want %v", got, tt.want)
			}
		})
	}
}
