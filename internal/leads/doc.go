// Package leads validates the contact and get-started form payloads and
// turns them into notification emails.
package leads
