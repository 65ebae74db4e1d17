package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	base := Config{AccessKey: "minioadmin", SecretKey: "minioadmin", Bucket: "media"}

	tests := []struct {
		name     string
		endpoint string
		ssl      bool
		wantErr  bool
	}{
		{name: "HostPort", endpoint: "localhost:9000"},
		{name: "HTTPScheme", endpoint: "http://minio:9000"},
		{name: "HTTPSSchemeTrailingSlash", endpoint: "https://s3.amazonaws.com/", ssl: true},
		{name: "BucketInPath", endpoint: "localhost:9000/media", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.Endpoint = tt.endpoint
			cfg.UseSSL = tt.ssl

			client, err := NewClient(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "minio:9000", hostOf("http://minio:9000/"))
	assert.Equal(t, "s3.amazonaws.com", hostOf("https://s3.amazonaws.com"))
	assert.Equal(t, "localhost:9000", hostOf("localhost:9000"))
}

func TestTransportTimeouts(t *testing.T) {
	assert.Equal(t, 30*time.Second, timeoutOf(Config{}))
	assert.Equal(t, 5*time.Second, timeoutOf(Config{TimeoutSeconds: 5}))

	tr := newTransport(5 * time.Second)
	assert.Equal(t, 5*time.Second, tr.TLSHandshakeTimeout)
	assert.Equal(t, 5*time.Second, tr.ResponseHeaderTimeout)
}
