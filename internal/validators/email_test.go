package validators

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zone answers lookups from fixed tables; anything else is not found.
type zone struct {
	mx    map[string][]*net.MX
	hosts map[string][]string
}

func (z zone) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if mx, ok := z.mx[name]; ok {
		return mx, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
}

func (z zone) LookupHost(_ context.Context, host string) ([]string, error) {
	if h, ok := z.hosts[host]; ok {
		return h, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

func TestMailDomain(t *testing.T) {
	cases := map[string]string{
		"jane@Example.COM":                 "example.com",
		"Jane Driver <jane@garage.test>":   "garage.test",
		"ops@localhost":                    "localhost",
		`"odd@local"@workshop.example.org`: "workshop.example.org",
	}
	for addr, want := range cases {
		t.Run(addr, func(t *testing.T) {
			got, err := MailDomain(addr)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	for _, bad := range []string{"", "no-at-sign", "@example.com", "user@", "a@b@c"} {
		t.Run("malformed "+bad, func(t *testing.T) {
			_, err := MailDomain(bad)
			assert.ErrorIs(t, err, ErrMalformedAddress)
		})
	}
}

func TestCheckRecipient(t *testing.T) {
	z := zone{
		mx: map[string][]*net.MX{
			"garage.test": {{Host: "mx1.garage.test.", Pref: 10}},
			"nomail.test": {{Host: ".", Pref: 0}},
			"backup.test": {{Host: "mx.backup.test.", Pref: 20}, {Host: "mx2.backup.test.", Pref: 30}},
		},
		hosts: map[string][]string{
			"bare.test": {"192.0.2.10"},
		},
	}

	cases := map[string]struct {
		addr string
		want error
	}{
		"mx host":           {"jane@garage.test", nil},
		"several mx hosts":  {"jane@backup.test", nil},
		"implicit mx":       {"jane@bare.test", nil},
		"null mx":           {"jane@nomail.test", ErrNullMX},
		"unknown domain":    {"jane@bays.invalid", ErrNoMailHost},
		"malformed address": {"jane", ErrMalformedAddress},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := CheckRecipient(context.Background(), z, tc.addr)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
