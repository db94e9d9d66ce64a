// Package mail sends transactional email through a Resend-compatible HTTP
// API.
//
//	c := mail.NewClient(apiKey)
//	id, err := c.Send(ctx, mail.Message{
//	    From:    "Portfolio <hello@example.com>",
//	    To:      []string{"me@example.com"},
//	    Subject: "New contact message",
//	    HTML:    "<p>Hi</p>",
//	})
//
// Send makes exactly one request. Callers that want retries add them.
package mail
