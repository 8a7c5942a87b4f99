// Package mixcloud is a client for the Mixcloud API.
//
// A Client reads artists, users and cloudcasts, and uploads new cloudcasts
// with their tracklist and tags:
//
//	client, err := mixcloud.NewClient(mixcloud.Config{
//		Credentials: credentials.Chain(
//			credentials.Env(""),
//			credentials.Netrc("", ""),
//		),
//	})
//	if err != nil {
//		return err
//	}
//	me, err := client.Me(ctx)
//
// The access token is resolved once, when the client is built, and sent as
// the access_token query parameter. Me and Upload fail with
// ErrUnauthenticated when there is none.
//
// OAuth builds the authorization URL of the code flow and exchanges the code
// the user comes back with for an access token.
package mixcloud
