package tls

import (
	"crypto/x509"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateServerCert(t *testing.T) {
	cert, err := CreateServerCert([]string{"localhost", "127.0.0.1", ""}, time.Hour)
	require.NoError(t, err)
	require.Len(t, cert.Certificate, 1)

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)

	assert.Equal(t, "sortasecret", leaf.Subject.CommonName)
	assert.Equal(t, []string{"localhost"}, leaf.DNSNames)
	require.Len(t, leaf.IPAddresses, 1)
	assert.True(t, leaf.IPAddresses[0].Equal(net.ParseIP("127.0.0.1")))
	assert.WithinDuration(t, time.Now().Add(time.Hour), leaf.NotAfter, time.Minute)
	assert.NoError(t, leaf.VerifyHostname("localhost"))
}

func TestCreateServerCertDefaultValidity(t *testing.T) {
	cert, err := CreateServerCert(nil, 0)
	require.NoError(t, err)

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultValidity), leaf.NotAfter, time.Minute)
}
