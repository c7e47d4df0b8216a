// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
)

// # Client Address

/*
ClientIP resolves the client address once per request and stores it for
[RealIP].

X-Forwarded-For and X-Real-IP are only honored when the TCP peer falls
inside one of the trusted prefixes. X-Forwarded-For is walked right to
left, skipping trusted hops, so a client cannot inject an address by
prepending entries.

Parameters:
  - trusted: []netip.Prefix (reverse proxies; nil trusts none)

Returns:
  - func(http.Handler) http.Handler
*/
func ClientIP(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ip := resolveClientIP(request, trusted)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithClientIP(request.Context(), ip)))
		})
	}
}

func resolveClientIP(request *http.Request, trusted []netip.Prefix) string {
	peer := peerAddr(request)

	peerIP, err := netip.ParseAddr(peer)
	if err != nil || !isTrusted(peerIP, trusted) {
		return peer
	}

	if forwarded := request.Header.Values(constants.HeaderXForwardedFor); len(forwarded) > 0 {
		hops := strings.Split(strings.Join(forwarded, ","), ",")
		for index := len(hops) - 1; index >= 0; index-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[index]))
			if err != nil {
				// Anything left of a malformed hop is unverifiable.
				break
			}
			if !isTrusted(hop, trusted) {
				return hop.Unmap().String()
			}
		}
		return peer
	}

	if realIP, err := netip.ParseAddr(strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP))); err == nil {
		return realIP.Unmap().String()
	}

	return peer
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
