package testing

import "context"

// FakePrompter answers prompts from fields.
type FakePrompter struct {
	SecretValue  string
	ConfirmValue bool
	Err          error

	Asked []string
}

func (p *FakePrompter) Secret(_ context.Context, title, _ string) (string, error) {
	p.Asked = append(p.Asked, title)
	return p.SecretValue, p.Err
}

func (p *FakePrompter) Confirm(_ context.Context, title, _ string) (bool, error) {
	p.Asked = append(p.Asked, title)
	return p.ConfirmValue, p.Err
}
