// pkg/ai/mock_client.go

package ai

import (
	"context"
	"fmt"
)

type mockClient struct{}

func NewMock() Client { return &mockClient{} }

func (m *mockClient) Describe(_ context.Context, title string) string {
	return fmt.Sprintf("«%s»: описание недоступно, генератор текста не настроен (mock).", title)
}
