package producer

import "time"

type Option func(*Producer)

// ConnAttempts sets how many broker pings New makes before giving up.
func ConnAttempts(attempts int) Option {
	return func(p *Producer) {
		if attempts > 0 {
			p.connAttempts = attempts
		}
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(p *Producer) {
		p.connTimeout = timeout
	}
}

// BatchTimeout caps how long a partial batch is held before it is flushed.
func BatchTimeout(timeout time.Duration) Option {
	return func(p *Producer) {
		if timeout > 0 {
			p.batchTimeout = timeout
		}
	}
}

func WriteTimeout(timeout time.Duration) Option {
	return func(p *Producer) {
		if timeout > 0 {
			p.writeTimeout = timeout
		}
	}
}
