// Package clientip resolves the source address of inbound requests and
// restricts a handler to an allow-list of networks.
//
// Forwarding headers are ignored unless named with WithTrustedHeaders, since
// any client can set them. Behind Cloudflare, for example:
//
//	res := clientip.New(clientip.WithTrustedHeaders("CF-Connecting-IP"))
//	allowed, err := clientip.ParsePrefixes(cfg.AllowedIPs)
//	r.Use(clientip.Middleware(res, allowed, log))
//
// An empty allow-list admits every address; the resolved address is still
// stored in the request context and can be read with FromContext.
package clientip
