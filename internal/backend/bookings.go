package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListPublicServices returns the services offered by a workspace. This is the
// public entry point of the booking wizard; no token is required.
func (c *Client) ListPublicServices(ctx context.Context, workspace string) ([]Service, error) {
	var services []Service
	err := c.get(ctx, "/api/bookings/services/"+url.PathEscape(workspace), "", nil, &services)
	if err != nil {
		return nil, err
	}
	return services, nil
}

// Availability returns the ordered bookable start times ("HH:MM") for a
// service on a single day. date must be formatted YYYY-MM-DD.
func (c *Client) Availability(ctx context.Context, serviceID int, date string) ([]string, error) {
	query := url.Values{}
	query.Set("date", date)

	var slots []string
	path := fmt.Sprintf("/api/public/services/%d/availability", serviceID)
	if err := c.get(ctx, path, "", query, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// CreateBooking creates a booking from the wizard submission. Slot contention
// between the availability fetch and this call comes back as a
// *ConflictError carrying the server's message.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*Booking, error) {
	var booking Booking
	if err := c.do(ctx, http.MethodPost, "/api/bookings", "", nil, req, &booking); err != nil {
		return nil, err
	}
	c.logger.Info("booking created", "booking_id", booking.ID, "service_id", req.ServiceID)
	return &booking, nil
}

// ListBookings returns the workspace's bookings for the dashboard view.
func (c *Client) ListBookings(ctx context.Context, token string) ([]Booking, error) {
	var bookings []Booking
	if err := c.get(ctx, "/api/bookings", token, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// BookingHistory returns the audit trail of a booking.
func (c *Client) BookingHistory(ctx context.Context, token string, bookingID int) ([]BookingEvent, error) {
	var events []BookingEvent
	path := fmt.Sprintf("/api/bookings/%d/history", bookingID)
	if err := c.get(ctx, path, token, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CancelBooking cancels a booking as an authenticated staff member or owner.
func (c *Client) CancelBooking(ctx context.Context, token string, bookingID int) error {
	path := fmt.Sprintf("/api/bookings/%d/cancel", bookingID)
	return c.do(ctx, http.MethodPost, path, token, nil, nil, nil)
}

// PublicCancelBooking cancels a booking with an emailed link token. A booking
// that was already cancelled yields ErrAlreadyCancelled, which callers treat
// as success.
func (c *Client) PublicCancelBooking(ctx context.Context, bookingID int, linkToken string) error {
	query := url.Values{}
	query.Set("token", linkToken)
	path := fmt.Sprintf("/api/bookings/%d/cancel", bookingID)
	return c.do(ctx, http.MethodPost, path, "", query, nil, nil)
}

// RestoreBooking reverses a cancellation. Owner only; the backend enforces it.
func (c *Client) RestoreBooking(ctx context.Context, token string, bookingID int) error {
	path := fmt.Sprintf("/api/bookings/%d/restore", bookingID)
	return c.do(ctx, http.MethodPost, path, token, nil, nil, nil)
}

// RescheduleBooking moves a booking to a new start time as an authenticated
// user. start must be an RFC3339 timestamp.
func (c *Client) RescheduleBooking(ctx context.Context, token string, bookingID int, start string) error {
	path := fmt.Sprintf("/api/bookings/%d", bookingID)
	body := map[string]string{"start_datetime": start}
	return c.do(ctx, http.MethodPatch, path, token, nil, body, nil)
}

// PublicRescheduleBooking moves a booking using an emailed link token.
func (c *Client) PublicRescheduleBooking(ctx context.Context, bookingID int, linkToken, start string) error {
	query := url.Values{}
	query.Set("token", linkToken)
	path := fmt.Sprintf("/api/bookings/%d/reschedule", bookingID)
	body := map[string]string{"start_datetime": start}
	return c.do(ctx, http.MethodPost, path, "", query, body, nil)
}

// PublicBooking fetches a booking for the token-gated reschedule page.
func (c *Client) PublicBooking(ctx context.Context, bookingID int, linkToken string) (*PublicBooking, error) {
	query := url.Values{}
	query.Set("token", linkToken)

	var booking PublicBooking
	path := fmt.Sprintf("/api/public/bookings/%d", bookingID)
	if err := c.get(ctx, path, "", query, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}
