package entities

// HistoricalSummary is the verified external activity summary delivered by
// the attestation feed. DefaultRate is fixed-point with AttestationRateScale
// as the denominator; AccountAge is in seconds.
type HistoricalSummary struct {
	TxCount        int64 `json:"txCount" binding:"gte=0"`
	AvgTxValue     int64 `json:"avgTxValue" binding:"gte=0"`
	PriorLoanCount int64 `json:"priorLoanCount" binding:"gte=0"`
	DefaultRate    int64 `json:"defaultRate" binding:"gte=0"`
	AccountAge     int64 `json:"accountAge" binding:"gte=0"`
}

// AttestationRateScale is the fixed-point denominator of
// HistoricalSummary.DefaultRate (10000 = 100%).
const AttestationRateScale = 10000

// SubmitAttestationInput is the inbound attestation callback payload
type SubmitAttestationInput struct {
	VerificationKeyID string            `json:"verificationKeyId" binding:"required"`
	User              string            `json:"user" binding:"required"`
	Summary           HistoricalSummary `json:"summary" binding:"required"`
}
