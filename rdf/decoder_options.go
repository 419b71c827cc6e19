package rdf

const (
	DefaultMaxLineBytes      = 1 << 20
	DefaultMaxStatementBytes = 4 << 20
	DefaultMaxDepth          = 64
	DefaultMaxTriples        = 0
)

const (
	safeMaxLineBytes      = 64 << 10
	safeMaxStatementBytes = 1 << 20
	safeMaxDepth          = 16
	safeMaxTriples        = 1_000_000
)

func defaultOptions() Options {
	return Options{
		MaxLineBytes:      DefaultMaxLineBytes,
		MaxStatementBytes: DefaultMaxStatementBytes,
		MaxDepth:          DefaultMaxDepth,
		MaxTriples:        DefaultMaxTriples,
	}
}

func safeOptions() Options {
	return Options{
		MaxLineBytes:      safeMaxLineBytes,
		MaxStatementBytes: safeMaxStatementBytes,
		MaxDepth:          safeMaxDepth,
		MaxTriples:        safeMaxTriples,
	}
}
