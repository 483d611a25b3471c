// Package cli provides folioctl, the interactive admin client for the folio
// content API.
//
// Typical flow: log in with email and password (the password is read without
// echo), then browse and prune content:
//
//	list <collection> [orderBy] [asc|desc]
//	show <collection> <id>
//	delete <collection> <id>
//	logout
//
// Expired access tokens are refreshed by the underlying client, so a long
// session keeps working until the refresh token itself runs out.
package cli
