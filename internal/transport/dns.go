package transport

import (
	"context"
	"encoding/base32"
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"
)

// DNSChannel tunnels chunks over DNS when only DNS egress is available.
// A chunk's header+data is base32-encoded (no padding, DNS labels are
// case-insensitive and limited to the RFC1035 alphabet) and split across
// QNAME labels of a TXT query; the server-mode channel hands the decoded
// datagram to its Recv and answers the query with an empty reply. Data
// flows one way only, client to server: replies carry no TXT records, a
// server-mode Send issues a query of its own to dst like a client does,
// and a client-mode Recv has no inbound data and returns only when ctx
// is done.
//
// This adapts the teacher's own TXT-record tunneling approach
// (internal/chunker/dns_encoder.go, cmd/dns-server) but carries raw
// strokkur wire frames instead of re-chunking with a second, independent
// framing scheme.
type DNSChannel struct {
	zone   string // trailing-dot zone suffix, e.g. "tunnel.example.org."
	client *dns.Client
	server string // authoritative server address for outbound queries, "host:53"

	srv     *dns.Server
	inbound chan inboundDatagram
}

type inboundDatagram struct {
	payload []byte
	src     net.Addr
}

var dnsEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

const maxLabelLen = 63

// NewDNSClient creates a DNSChannel that sends queries to server (a
// resolver or the authoritative server for zone). Replies are not read for
// data, so the returned channel's Recv blocks until ctx is done.
func NewDNSClient(zone, server string) *DNSChannel {
	if !strings.HasSuffix(zone, ".") {
		zone += "."
	}
	return &DNSChannel{
		zone:   zone,
		client: &dns.Client{Net: "udp"},
		server: server,
	}
}

// ListenDNS starts an authoritative DNS server for zone on addr, decoding
// each inbound TXT query's QNAME as a chunk for Recv and answering every
// query with an empty reply.
func ListenDNS(zone, addr string) (*DNSChannel, error) {
	if !strings.HasSuffix(zone, ".") {
		zone += "."
	}
	c := &DNSChannel{
		zone:    zone,
		client:  &dns.Client{Net: "udp"},
		inbound: make(chan inboundDatagram, 64),
	}
	mux := dns.NewServeMux()
	mux.HandleFunc(zone, c.handleQuery)

	started := make(chan struct{})
	c.srv = &dns.Server{
		Addr:              addr,
		Net:               "udp",
		Handler:           mux,
		NotifyStartedFunc: func() { close(started) },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- c.srv.ListenAndServe() }()
	select {
	case err := <-errCh:
		if err != nil {
			return nil, fmt.Errorf("transport: dns listen %q: %w", addr, err)
		}
	case <-started:
	}
	return c, nil
}

// LocalAddr returns the bound address of a server-mode DNSChannel. Only
// valid after ListenDNS has returned successfully.
func (c *DNSChannel) LocalAddr() net.Addr {
	return c.srv.PacketConn.LocalAddr()
}

// Close shuts down a server-mode DNSChannel.
func (c *DNSChannel) Close() error {
	if c.srv == nil {
		return nil
	}
	return c.srv.Shutdown()
}

func (c *DNSChannel) handleQuery(w dns.ResponseWriter, r *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(r)
	if len(r.Question) == 0 {
		_ = w.WriteMsg(m)
		return
	}
	payload, err := decodeQName(r.Question[0].Name, c.zone)
	if err == nil && len(payload) > 0 {
		select {
		case c.inbound <- inboundDatagram{payload: payload, src: w.RemoteAddr()}:
		default:
		}
	}
	_ = w.WriteMsg(m)
}

// Send encodes header+data into a TXT query's QNAME and transmits it to
// the configured authoritative server.
func (c *DNSChannel) Send(ctx context.Context, dst net.Addr, header, data []byte) (int, error) {
	buf := make([]byte, 0, len(header)+len(data))
	buf = append(buf, header...)
	buf = append(buf, data...)

	qname, err := encodeQName(buf, c.zone)
	if err != nil {
		return 0, fmt.Errorf("transport: dns encode: %w", err)
	}

	m := new(dns.Msg)
	m.SetQuestion(qname, dns.TypeTXT)

	server := c.server
	if a, ok := dst.(*net.UDPAddr); ok {
		server = a.String()
	}

	_, _, err = c.client.ExchangeContext(ctx, m, server)
	if err != nil {
		return 0, fmt.Errorf("transport: dns exchange: %w", err)
	}
	return len(buf), nil
}

// Recv returns the next inbound chunk decoded from a query's QNAME.
func (c *DNSChannel) Recv(ctx context.Context, buf []byte) (int, net.Addr, bool, error) {
	select {
	case d := <-c.inbound:
		n := len(d.payload)
		truncated := n > len(buf)
		if truncated {
			n = len(buf)
		}
		copy(buf, d.payload[:n])
		return n, d.src, truncated, nil
	case <-ctx.Done():
		return 0, nil, false, fmt.Errorf("transport: dns recv: %w", ctx.Err())
	}
}

// encodeQName base32-encodes data and splits it across DNS labels no
// longer than 63 octets each, terminated by zone.
func encodeQName(data []byte, zone string) (string, error) {
	encoded := dnsEncoding.EncodeToString(data)
	var labels []string
	for len(encoded) > 0 {
		end := maxLabelLen
		if end > len(encoded) {
			end = len(encoded)
		}
		labels = append(labels, encoded[:end])
		encoded = encoded[end:]
	}
	name := strings.Join(labels, ".") + "." + zone
	if len(name) > 253 {
		return "", fmt.Errorf("encoded chunk does not fit a DNS name (%d bytes)", len(name))
	}
	return dns.Fqdn(name), nil
}

// decodeQName reverses encodeQName.
func decodeQName(qname, zone string) ([]byte, error) {
	qname = strings.TrimSuffix(dns.Fqdn(qname), dns.Fqdn(zone))
	qname = strings.TrimSuffix(qname, ".")
	encoded := strings.ReplaceAll(qname, ".", "")
	return dnsEncoding.DecodeString(strings.ToUpper(encoded))
}
