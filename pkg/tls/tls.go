package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"
)

const DefaultValidity = 28 * 24 * time.Hour

// CreateServerCert returns a throwaway self-signed certificate for hosts.
// It is meant for running behind a proxy that terminates TLS itself or does
// not verify the upstream certificate.
func CreateServerCert(hosts []string, validity time.Duration) (tls.Certificate, error) {
	if validity <= 0 {
		validity = DefaultValidity
	}

	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	now := time.Now()

	if key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader); err != nil {
		return tls.Certificate{}, fmt.Errorf("generating server key: %v", err)
	} else if serialNumber, err := rand.Int(rand.Reader, serialNumberLimit); err != nil {
		return tls.Certificate{}, fmt.Errorf("generating serial number: %v", err)
	} else {
		tmpl := x509.Certificate{
			SerialNumber:          serialNumber,
			Subject:               pkix.Name{CommonName: "sortasecret"},
			NotBefore:             now.Add(-time.Minute),
			NotAfter:              now.Add(validity),
			KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
			ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
			BasicConstraintsValid: true,
			IsCA:                  true,
		}

		for _, h := range hosts {
			if ip := net.ParseIP(h); ip != nil {
				tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
			} else if h != "" {
				tmpl.DNSNames = append(tmpl.DNSNames, h)
			}
		}

		if certDER, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key); err != nil {
			return tls.Certificate{}, fmt.Errorf("error creating cert: %v", err)
		} else if keyDER, err := x509.MarshalECPrivateKey(key); err != nil {
			return tls.Certificate{}, fmt.Errorf("encoding server key: %v", err)
		} else {
			certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
			keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

			if cert, err := tls.X509KeyPair(certPEM, keyPEM); err != nil {
				return tls.Certificate{}, fmt.Errorf("invalid key pair: %v", err)
			} else {
				return cert, nil
			}
		}
	}
}
