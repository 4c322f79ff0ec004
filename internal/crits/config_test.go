package crits

import "testing"

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Hostname: "https://crits.example.com",
		Username: "analyst",
		APIKey:   "secret",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing hostname",
			mutate:  func(c *Config) { c.Hostname = "" },
			wantErr: "a CRITs hostname must be provided",
		},
		{
			name:    "missing API key",
			mutate:  func(c *Config) { c.APIKey = "" },
			wantErr: "a CRITs API key must be provided",
		},
		{
			name:    "missing username",
			mutate:  func(c *Config) { c.Username = "" },
			wantErr: "a CRITs username must be provided",
		},
		{
			name: "hostname checked before API key",
			mutate: func(c *Config) {
				c.Hostname = ""
				c.APIKey = ""
			},
			wantErr: "a CRITs hostname must be provided",
		},
		{
			name: "API key checked before username",
			mutate: func(c *Config) {
				c.APIKey = ""
				c.Username = ""
			},
			wantErr: "a CRITs API key must be provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Expected error %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
