// Package plurk is a client for the Plurk JSON API.
//
// A Client holds the API key and, after Login, the session cookie the server
// issued. High-level operations build a /API/<Module>/<method> request,
// attach the cookie, and decode the JSON payload into typed records:
//
//	client := plurk.NewClient(apiKey)
//	profile, err := client.Login(ctx, "username", "password")
//	if err != nil {
//		log.Fatal(err)
//	}
//	plurks, users, err := client.PollPlurks(ctx, time.Now().Add(-time.Hour), 20)
//
// Operations that need a session fail with ErrNotLoggedIn before any network
// call when invoked on an unauthenticated client. Server rejections surface
// as *APIError (or *AuthError from Login) carrying the server's error text
// verbatim.
//
// A Client is meant for single-threaded use and performs no retries, caching
// or rate limiting.
package plurk
