package consumer

import "time"

type Option func(*Consumer)

// ConnAttempts sets how many broker pings New makes before giving up.
func ConnAttempts(attempts int) Option {
	return func(c *Consumer) {
		if attempts > 0 {
			c.connAttempts = attempts
		}
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(c *Consumer) {
		c.connTimeout = timeout
	}
}

// MaxWait bounds how long a fetch waits for MinBytes to accumulate.
func MaxWait(wait time.Duration) Option {
	return func(c *Consumer) {
		if wait > 0 {
			c.maxWait = wait
		}
	}
}
