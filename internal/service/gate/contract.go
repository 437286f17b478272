package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wickmon/wickmon/internal/entity"
	"github.com/wickmon/wickmon/internal/service/exchange"
)

var _ exchange.ContractService = (*Service)(nil)

func (s *Service) GetContracts(ctx context.Context) ([]entity.Contract, error) {
	urlPath := fmt.Sprintf("/futures/%s/contracts", s.settle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+urlPath, nil)
	if err != nil {
		return nil, err
	}

	body, err := s.signedRequest(req, urlPath, "", "")
	if err != nil {
		return nil, err
	}

	var contracts []entity.Contract
	if err = json.Unmarshal(body, &contracts); err != nil {
		return nil, fmt.Errorf("invalid contracts response: %w", err)
	}
	return contracts, nil
}
