package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListLeads returns the workspace's leads, optionally filtered by status.
func (c *Client) ListLeads(ctx context.Context, token, status string) ([]Lead, error) {
	var query url.Values
	if status != "" {
		query = url.Values{}
		query.Set("status", status)
	}
	var leads []Lead
	if err := c.get(ctx, "/api/leads", token, query, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// UpdateLeadStatus moves a lead to a new pipeline status.
func (c *Client) UpdateLeadStatus(ctx context.Context, token string, leadID int, status string) error {
	path := fmt.Sprintf("/api/leads/%d/status", leadID)
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPatch, path, token, nil, body, nil)
}

// SubmitLeadForm submits the public lead-capture form for a workspace.
func (c *Client) SubmitLeadForm(ctx context.Context, workspace string, form LeadForm) error {
	path := "/api/workspaces/" + url.PathEscape(workspace) + "/lead-form"
	return c.do(ctx, http.MethodPost, path, "", nil, form, nil)
}

// ListInventory returns the workspace's inventory items.
func (c *Client) ListInventory(ctx context.Context, token string) ([]InventoryItem, error) {
	var items []InventoryItem
	if err := c.get(ctx, "/api/inventory", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateInventoryItem adds a stock line.
func (c *Client) CreateInventoryItem(ctx context.Context, token string, req InventoryItemRequest) (*InventoryItem, error) {
	var item InventoryItem
	if err := c.do(ctx, http.MethodPost, "/api/inventory", token, nil, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateInventoryItem edits a stock line.
func (c *Client) UpdateInventoryItem(ctx context.Context, token string, itemID int, req InventoryItemRequest) error {
	path := fmt.Sprintf("/api/inventory/%d", itemID)
	return c.do(ctx, http.MethodPatch, path, token, nil, req, nil)
}

// DeleteInventoryItem removes a stock line.
func (c *Client) DeleteInventoryItem(ctx context.Context, token string, itemID int) error {
	path := fmt.Sprintf("/api/inventory/%d", itemID)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil, nil)
}

// ListConversations returns inbox threads.
func (c *Client) ListConversations(ctx context.Context, token string) ([]Conversation, error) {
	var conversations []Conversation
	if err := c.get(ctx, "/api/conversations", token, nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// GetConversation returns one thread with its messages.
func (c *Client) GetConversation(ctx context.Context, token string, conversationID int) (*Conversation, error) {
	var conversation Conversation
	path := fmt.Sprintf("/api/conversations/%d", conversationID)
	if err := c.get(ctx, path, token, nil, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// SendMessage posts a reply on a conversation.
func (c *Client) SendMessage(ctx context.Context, token string, req MessageRequest) error {
	return c.do(ctx, http.MethodPost, "/api/conversations/messages", token, nil, req, nil)
}

// SyncInbox asks the backend to pull new mail. The gateway treats it as an
// opaque mutation followed by a refetch.
func (c *Client) SyncInbox(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/inbox/sync", token, nil, nil, nil)
}

// ListForms returns the workspace's configured forms.
func (c *Client) ListForms(ctx context.Context, token string) ([]Form, error) {
	var forms []Form
	if err := c.get(ctx, "/api/forms", token, nil, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// CreateForm adds a form.
func (c *Client) CreateForm(ctx context.Context, token string, req FormRequest) (*Form, error) {
	var form Form
	if err := c.do(ctx, http.MethodPost, "/api/forms", token, nil, req, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// UpdateForm edits a form.
func (c *Client) UpdateForm(ctx context.Context, token string, formID int, req FormRequest) error {
	path := fmt.Sprintf("/api/forms/%d", formID)
	return c.do(ctx, http.MethodPatch, path, token, nil, req, nil)
}

// DeleteForm removes a form.
func (c *Client) DeleteForm(ctx context.Context, token string, formID int) error {
	path := fmt.Sprintf("/api/forms/%d", formID)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil, nil)
}

// PublicForm fetches a form for unauthenticated filling.
func (c *Client) PublicForm(ctx context.Context, formID int) (*Form, error) {
	var form Form
	path := fmt.Sprintf("/api/public/forms/%d", formID)
	if err := c.get(ctx, path, "", nil, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// SubmitPublicForm submits answers for a public form.
func (c *Client) SubmitPublicForm(ctx context.Context, formID int, answers map[string]any) error {
	path := fmt.Sprintf("/api/public/forms/%d/submit", formID)
	return c.do(ctx, http.MethodPost, path, "", nil, answers, nil)
}

// BookingIntake fetches the intake form attached to a booking.
func (c *Client) BookingIntake(ctx context.Context, bookingID int) (*Form, error) {
	var form Form
	path := fmt.Sprintf("/api/public/bookings/%d/intake", bookingID)
	if err := c.get(ctx, path, "", nil, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// SubmitBookingIntake submits intake answers for a booking.
func (c *Client) SubmitBookingIntake(ctx context.Context, bookingID int, answers map[string]any) error {
	path := fmt.Sprintf("/api/public/bookings/%d/intake", bookingID)
	return c.do(ctx, http.MethodPost, path, "", nil, answers, nil)
}

// ListServices returns the workspace's services for the management screen.
func (c *Client) ListServices(ctx context.Context, token string) ([]Service, error) {
	var services []Service
	if err := c.get(ctx, "/api/services", token, nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// CreateService adds a service.
func (c *Client) CreateService(ctx context.Context, token string, req ServiceRequest) (*Service, error) {
	var service Service
	if err := c.do(ctx, http.MethodPost, "/api/services", token, nil, req, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

// DeleteService removes a service.
func (c *Client) DeleteService(ctx context.Context, token string, serviceID int) error {
	path := fmt.Sprintf("/api/services/%d", serviceID)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil, nil)
}

// ListStaff returns workspace users.
func (c *Client) ListStaff(ctx context.Context, token string) ([]StaffMember, error) {
	var staff []StaffMember
	if err := c.get(ctx, "/api/staff", token, nil, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// InviteStaff invites a staff member with a section permission map.
func (c *Client) InviteStaff(ctx context.Context, token string, invite StaffInvite) error {
	return c.do(ctx, http.MethodPost, "/api/staff/invite", token, nil, invite, nil)
}

// DashboardSummary returns read-side aggregates for the dashboard page.
func (c *Client) DashboardSummary(ctx context.Context, token string) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := c.get(ctx, "/api/dashboard", token, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
