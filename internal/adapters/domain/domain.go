// Package domain implements the domain scheme adapter (§4.22): DNS
// record lookups via miekg/dns, issuing one query per requested record
// type against the configured resolver.
package domain

import (
	"context"
	"strings"

	"github.com/miekg/dns"

	"github.com/termfx/reveal/internal/adapter"
	"github.com/termfx/reveal/internal/contract"
	"github.com/termfx/reveal/internal/query"
	"github.com/termfx/reveal/internal/uri"
)

// defaultTypes is the record-type set queried when ?types= is absent.
var defaultTypes = []string{"A", "AAAA", "MX", "TXT", "NS", "CNAME"}

var typeCodes = map[string]uint16{
	"A":     dns.TypeA,
	"AAAA":  dns.TypeAAAA,
	"MX":    dns.TypeMX,
	"TXT":   dns.TypeTXT,
	"NS":    dns.TypeNS,
	"CNAME": dns.TypeCNAME,
}

// Adapter implements adapter.Adapter for the "domain" scheme.
type Adapter struct {
	resolver string // "system" or an explicit "host:port"
}

// New builds an Adapter against resolver, sourced from the
// Configuration Snapshot's "domain.resolver" (default "system", which
// reads /etc/resolv.conf).
func New(resolver string) *Adapter {
	if resolver == "" {
		resolver = "system"
	}
	return &Adapter{resolver: resolver}
}

func (a *Adapter) Scheme() string     { return "domain" }
func (a *Adapter) Kind() adapter.Kind { return adapter.ResourceAsTarget }

func (a *Adapter) resolverAddr() (string, error) {
	if a.resolver != "system" {
		return a.resolver, nil
	}
	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cfg.Servers) == 0 {
		return "", err
	}
	return cfg.Servers[0] + ":" + cfg.Port, nil
}

func (a *Adapter) GetStructure(ctx context.Context, u *uri.URI, q *query.Parsed) (*contract.Structure, error) {
	types := defaultTypes
	if raw, ok := u.Query.Get("types"); ok {
		types = strings.Split(raw, ",")
	}

	addr, err := a.resolverAddr()
	if err != nil {
		return nil, contract.NewError(contract.ErrResourceUnavailable, u.Raw, "cannot resolve DNS resolver configuration", err)
	}

	s := contract.NewStructure("domain_records", u.Raw, contract.SourceRemote)
	client := new(dns.Client)

	for _, t := range types {
		code, ok := typeCodes[strings.ToUpper(strings.TrimSpace(t))]
		if !ok {
			s.AddWarning("UnknownRecordType", "unrecognized record type "+t)
			continue
		}
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(u.Resource), code)
		resp, _, err := client.ExchangeContext(ctx, msg, addr)
		if err != nil {
			s.AddWarning("QueryFailed", t+": "+err.Error())
			continue
		}
		for i, rr := range resp.Answer {
			s.AddCategory("records", &contract.Element{
				Name:     strings.ToUpper(t),
				Category: "records",
				Ordinal:  i + 1,
				Attributes: map[string]any{
					"type":  strings.ToUpper(t),
					"value": strings.TrimPrefix(rr.String(), rr.Header().String()),
					"ttl":   float64(rr.Header().Ttl),
				},
			})
		}
	}

	if q != nil {
		adapter.ApplyToStructure(s, q)
	}
	return s, nil
}

func (a *Adapter) GetElement(ctx context.Context, u *uri.URI, ref uri.ElementRef) (*contract.Element, error) {
	s, err := a.GetStructure(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	return adapter.ResolveElement(s, u.Raw, ref)
}

func (a *Adapter) Help() adapter.HelpRecord {
	return adapter.HelpRecord{
		Scheme:      "domain",
		Summary:     "DNS record lookups (A, AAAA, MX, TXT, NS, CNAME by default)",
		Categories:  []string{"records"},
		Examples:    []string{"domain://example.com", "domain://example.com?types=A,MX"},
		QueryFields: []string{"types"},
	}
}

func (a *Adapter) Schema() adapter.Schema {
	return adapter.Schema{Fields: []adapter.FieldSchema{
		{Name: "name", Type: "string"},
		{Name: "type", Type: "string", Enum: defaultTypes},
		{Name: "ttl", Type: "number"},
	}}
}
