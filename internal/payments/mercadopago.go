package payments

import (
	"context"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type CheckoutItem struct {
	Title     string
	Quantity  int
	UnitPrice float64
}

type Checkout struct {
	PreferenceID string
	URL          string
}

// MercadoPago cria preferências de checkout para comandas. Opcional: sem
// access token configurado o gateway fica desligado.
type MercadoPago struct {
	client preference.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	if accessToken == "" {
		return nil, nil
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}

	return &MercadoPago{client: preference.NewClient(cfg)}, nil
}

func (m *MercadoPago) CreateCheckout(
	ctx context.Context,
	orderNumber string,
	items []CheckoutItem,
) (*Checkout, error) {

	req := preference.Request{
		ExternalReference: orderNumber,
	}

	for _, it := range items {
		req.Items = append(req.Items, preference.ItemRequest{
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	resp, err := m.client.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Checkout{
		PreferenceID: resp.ID,
		URL:          resp.InitPoint,
	}, nil
}
