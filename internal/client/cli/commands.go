package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/triptales/internal/client/client"
	"github.com/dmitrijs2005/triptales/internal/common"
)

// listLimit is how many itineraries list and pending ask for.
const listLimit = 50

var errNotLoggedIn = errors.New("not logged in")

// report prints err for the user and returns it unchanged.
func (a *App) report(err error) error {
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return a.report(err)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	s, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return a.report(err)
	}

	a.token = s.Token
	u := s.User
	a.user = &u

	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", u.Email, u.Role)
	if u.Role != common.RoleAdmin {
		fmt.Fprintln(a.out, "Warning: this account is not an admin; approve and reject will be refused.")
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report(errNotLoggedIn)
	}
	a.token = ""
	a.user = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// List prints the newest itineraries, optionally filtered by review status.
func (a *App) List(ctx context.Context, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !common.IsValidStatus(status) {
		return a.report(fmt.Errorf("%w: status must be one of pending, approved, rejected", common.ErrInvalidArgument))
	}

	page, err := a.api.ListItineraries(ctx, status, listLimit)
	if err != nil {
		return a.report(err)
	}

	if len(page.Items) == 0 {
		fmt.Fprintln(a.out, "No itineraries")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPROOF\tCREATED\tTITLE")
	for _, it := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.ReviewStatus, proofSummary(&it.Proof.Verification),
			it.CreatedAt.Local().Format(time.DateTime), it.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Showing %d of %d\n", len(page.Items), page.Total)
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	if id == "" {
		return a.report(fmt.Errorf("%w: usage: show <id>", common.ErrInvalidArgument))
	}
	it, err := a.api.GetItinerary(ctx, id)
	if err != nil {
		return a.report(err)
	}
	a.printItinerary(it)
	return nil
}

func (a *App) Approve(ctx context.Context, id, note string) error {
	return a.setStatus(ctx, id, common.StatusApproved, note)
}

func (a *App) Reject(ctx context.Context, id, note string) error {
	return a.setStatus(ctx, id, common.StatusRejected, note)
}

func (a *App) setStatus(ctx context.Context, id, status, note string) error {
	if !a.isLoggedIn() {
		return a.report(errNotLoggedIn)
	}
	if id == "" {
		return a.report(fmt.Errorf("%w: an itinerary id is required", common.ErrInvalidArgument))
	}

	it, err := a.api.SetStatus(ctx, a.token, id, status, note)
	if errors.Is(err, client.ErrUnauthorized) {
		a.token = ""
		a.user = nil
		fmt.Fprintln(a.out, "Session expired, please log in again")
	}
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Itinerary %s is now %s\n", it.ID, it.ReviewStatus)
	return nil
}

func proofSummary(v *client.Verification) string {
	switch {
	case !v.Available:
		return "unverified"
	case v.Within5km:
		return "near route"
	default:
		return "far from route"
	}
}

func (a *App) printItinerary(it *client.Itinerary) {
	w := a.out
	fmt.Fprintf(w, "ID:          %s\n", it.ID)
	fmt.Fprintf(w, "Title:       %s\n", it.Title)
	fmt.Fprintf(w, "Route:       %s\n", it.Route)
	fmt.Fprintf(w, "Duration:    %s\n", it.Duration)
	fmt.Fprintf(w, "Budget:      %s\n", it.Budget)
	fmt.Fprintf(w, "Highlights:  %s\n", it.Highlights)
	fmt.Fprintf(w, "Status:      %s\n", it.ReviewStatus)
	fmt.Fprintf(w, "Created:     %s\n", it.CreatedAt.Local().Format(time.DateTime))
	if it.ReviewedAt != nil {
		fmt.Fprintf(w, "Reviewed:    %s\n", it.ReviewedAt.Local().Format(time.DateTime))
	}
	if it.ReviewNote != nil {
		fmt.Fprintf(w, "Review note: %s\n", *it.ReviewNote)
	}

	p := it.Proof
	fmt.Fprintf(w, "Location:    %.6f, %.6f\n", p.Location.Latitude, p.Location.Longitude)
	fmt.Fprintf(w, "Photo:       %s (%s, %d bytes)\n", p.Photo.URL, p.Photo.MimeType, p.Photo.SizeBytes)

	v := p.Verification
	if !v.Available || v.MatchedRoutePoint == nil || v.DistanceKm == nil {
		fmt.Fprintln(w, "Proof:       no known place on the route")
		return
	}
	fmt.Fprintf(w, "Proof:       %.3f km from %s (%s, radius %g km)\n",
		*v.DistanceKm, *v.MatchedRoutePoint, proofSummary(&v), v.RadiusKm)
}
