// Package lib groups the integrations that do not belong to a single
// layer: the Asynq background job queue and the Resend email client.
package lib
