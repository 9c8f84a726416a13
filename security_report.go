package goCred

type SecurityReport struct {
	Algorithm        HashAlgorithm
	BcryptLogRounds  int
	Argon2           Argon2ConfigReport
	GateCapacity     int64
	StoreConfigured  bool
	AuditActive      bool
	AuditDropIfFull  bool
	MetricsActive    bool
	LatencyTracking  bool
	ImportMaxRetries int
}

type Argon2ConfigReport struct {
	MemoryKB    uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	return SecurityReport{
		Algorithm:       e.config.Hashing.Algorithm,
		BcryptLogRounds: e.config.Hashing.BcryptLogRounds,
		Argon2: Argon2ConfigReport{
			MemoryKB:    e.config.Hashing.Argon2MemoryKB,
			Iterations:  e.config.Hashing.Argon2Iterations,
			Parallelism: e.config.Hashing.Argon2Parallelism,
			SaltLength:  e.config.Hashing.Argon2SaltLength,
			KeyLength:   e.config.Hashing.Argon2KeyLength,
		},
		GateCapacity:     e.GateCapacity(),
		StoreConfigured:  e.store != nil,
		AuditActive:      e.config.Audit.Enabled,
		AuditDropIfFull:  e.config.Audit.DropIfFull,
		MetricsActive:    e.config.Metrics.Enabled,
		LatencyTracking:  e.config.Metrics.Enabled && e.config.Metrics.EnableLatencyHistograms,
		ImportMaxRetries: e.config.Import.MaxRetries,
	}
}
