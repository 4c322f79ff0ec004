package classify

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind string
	}{
		{"ipv4", "1.2.3.4", "ip"},
		{"ipv6", "2001:db8::1", "ip"},
		{"ipv6 loopback", "::1", "ip"},
		{"md5", "d41d8cd98f00b204e9800998ecf8427e", "hash"},
		{"md5 uppercase", "D41D8CD98F00B204E9800998ECF8427E", "hash"},
		{"sha1", "da39a3ee5e6b4b0d3255bfef95601890afd80709", "hash"},
		{"sha256", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", "hash"},
		{"domain", "evil.example.com", "domain"},
		{"bare tld domain", "example.net", "domain"},
		{"url", "https://evil.example.com/path", "url"},
		{"email", "admin@example.com", "email"},
		{"leading whitespace", "  1.2.3.4  ", "ip"},
		{"random text", "not an indicator", "unknown"},
		{"short hex", "abcdef", "unknown"},
		{"empty", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indicator := Classify(tt.input)
			if got := indicator.Kind(); got != tt.wantKind {
				t.Errorf("Classify(%q) kind = %q, want %q", tt.input, got, tt.wantKind)
			}
		})
	}
}

func TestClassifyHashKinds(t *testing.T) {
	if kind := Classify("d41d8cd98f00b204e9800998ecf8427e").HashKind(); kind != "md5" {
		t.Errorf("Expected md5, got %q", kind)
	}
	if kind := Classify("da39a3ee5e6b4b0d3255bfef95601890afd80709").HashKind(); kind != "sha1" {
		t.Errorf("Expected sha1, got %q", kind)
	}
	if kind := Classify("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855").HashKind(); kind != "sha256" {
		t.Errorf("Expected sha256, got %q", kind)
	}
}

func TestClassifyTrimsWhitespace(t *testing.T) {
	indicator := Classify("  evil.example.com\n")
	if indicator.Value != "evil.example.com" {
		t.Errorf("Expected trimmed value, got %q", indicator.Value)
	}
	if !indicator.IsDomain {
		t.Error("Expected domain flag after trimming")
	}
}

func TestBatch(t *testing.T) {
	indicators := Batch([]string{"1.2.3.4", "evil.example.com", "junk value"})
	if len(indicators) != 3 {
		t.Fatalf("Expected 3 indicators, got %d", len(indicators))
	}
	if !indicators[0].IsIP {
		t.Error("Expected first entry to be an IP")
	}
	if !indicators[1].IsDomain {
		t.Error("Expected second entry to be a domain")
	}
	if indicators[2].Kind() != "unknown" {
		t.Errorf("Expected unknown kind, got %q", indicators[2].Kind())
	}
}
