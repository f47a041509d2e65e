package validators

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"strings"
)

// Resolver is the part of *net.Resolver a recipient check needs.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

var (
	ErrMalformedAddress = errors.New("malformed address")
	ErrNullMX           = errors.New("domain does not accept mail")
	ErrNoMailHost       = errors.New("domain has no mail host")
)

// MailDomain returns the lower-cased domain of a single address. A display
// name ("Jane <jane@example.com>") is allowed.
func MailDomain(addr string) (string, error) {
	a, err := mail.ParseAddress(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedAddress, addr)
	}
	at := strings.LastIndexByte(a.Address, '@')
	return strings.ToLower(strings.TrimSuffix(a.Address[at+1:], ".")), nil
}

// CheckRecipient returns nil when a relay could hand mail for addr to
// someone: the domain has MX hosts, or no MX but an address record (the
// implicit MX). A single "." MX host is a null MX and refuses all mail.
func CheckRecipient(ctx context.Context, r Resolver, addr string) error {
	domain, err := MailDomain(addr)
	if err != nil {
		return err
	}

	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		if len(mx) == 1 && strings.Trim(mx[0].Host, ".") == "" {
			return fmt.Errorf("%w: %s", ErrNullMX, domain)
		}
		return nil
	}

	if hosts, err := r.LookupHost(ctx, domain); err == nil && len(hosts) > 0 {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrNoMailHost, domain)
}
