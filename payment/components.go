// Package payment implements the DOKU Checkout integration: signing outbound
// requests, verifying inbound notifications, and the booking payment flow
// built on top of them.
//
// Both directions share one signature scheme. The signed text is the
// component string
//
//	Client-Id:{client id}
//	Request-Id:{request id}
//	Request-Timestamp:{UTC, seconds precision, trailing Z}
//	Request-Target:{path}
//	Digest:{base64(sha256(body))}
//
// joined by "\n" in exactly this order, and the Signature header is
// "HMACSHA256=" + base64(HMAC-SHA256(secret key, component string)).
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"
)

const (
	HeaderClientID         = "Client-Id"
	HeaderRequestID        = "Request-Id"
	HeaderRequestTimestamp = "Request-Timestamp"
	HeaderDigest           = "Digest"
	HeaderSignature        = "Signature"

	SignaturePrefix = "HMACSHA256="
	TimestampLayout = "2006-01-02T15:04:05Z"
)

// Components are the values bound by a signature.
type Components struct {
	ClientID         string
	RequestID        string
	RequestTimestamp string
	RequestTarget    string
	Digest           string
}

// String builds the canonical component string. The field order and the
// "Name:value" form are part of the wire contract.
func (c Components) String() string {
	return strings.Join([]string{
		HeaderClientID + ":" + c.ClientID,
		HeaderRequestID + ":" + c.RequestID,
		HeaderRequestTimestamp + ":" + c.RequestTimestamp,
		"Request-Target:" + c.RequestTarget,
		HeaderDigest + ":" + c.Digest,
	}, "\n")
}

// Digest is base64(SHA-256(body)) over the exact bytes given.
func Digest(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// ComputeSignature returns the full Signature header value for c.
func ComputeSignature(secret string, c Components) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(c.String()))
	return SignaturePrefix + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// FormatTimestamp renders t as the gateway expects: UTC, whole seconds, "Z".
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
