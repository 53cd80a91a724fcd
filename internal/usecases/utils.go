package usecases

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	domainerrors "trustlend.backend/internal/domain/errors"
)

// normalizeAddress validates a borrower identity and canonicalizes it to a
// lowercase hex address. The zero address is the null identity and is
// rejected.
func normalizeAddress(addr string) (string, error) {
	if !common.IsHexAddress(addr) {
		return "", domainerrors.ErrInvalidUser
	}
	parsed := common.HexToAddress(addr)
	if parsed == (common.Address{}) {
		return "", domainerrors.ErrInvalidUser
	}
	return strings.ToLower(parsed.Hex()), nil
}
