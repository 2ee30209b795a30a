package handler

import (
	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/ports"
)

// --- Request → Service input ---

func toSubmitInput(req submitAppRequest) ports.SubmitAppInput {
	return ports.SubmitAppInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Platform:    req.Platform,
		PriceCents:  req.PriceCents,
	}
}

func toUpdateInput(req updateAppRequest) ports.UpdateAppInput {
	return ports.UpdateAppInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Platform:    req.Platform,
		PriceCents:  req.PriceCents,
	}
}

// --- Domain → HTTP response ---

func linksFor(id string) appLinks {
	return appLinks{
		Self:    "/v1/apps/" + id,
		Reviews: "/v1/apps/" + id + "/reviews",
	}
}

func toAppResponse(a *domain.App) appResponse {
	return appResponse{
		ID:            a.ID,
		DeveloperID:   a.DeveloperID,
		Name:          a.Name,
		Description:   a.Description,
		Category:      a.Category,
		Platform:      a.Platform,
		PriceCents:    a.PriceCents,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt.UTC(),
		UpdatedAt:     a.UpdatedAt.UTC(),
		StatusHistory: toStatusHistoryResponse(a.StatusHistory),
		Links:         linksFor(a.ID),
	}
}

func toStatusHistoryResponse(items []domain.StatusHistoryEntry) []statusHistoryItemResponse {
	out := make([]statusHistoryItemResponse, len(items))
	for i, item := range items {
		out[i] = statusHistoryItemResponse{
			Status:    string(item.Status),
			Timestamp: item.Timestamp.UTC(),
			Notes:     item.Notes,
		}
	}
	return out
}

func toListResponse(r *ports.ListAppsResult) listAppsResponse {
	items := make([]appSummaryResponse, len(r.Items))
	for i, a := range r.Items {
		items[i] = appSummaryResponse{
			ID:          a.ID,
			DeveloperID: a.DeveloperID,
			Name:        a.Name,
			Category:    a.Category,
			Platform:    a.Platform,
			PriceCents:  a.PriceCents,
			Status:      string(a.Status),
			CreatedAt:   a.CreatedAt.UTC(),
			Links:       linksFor(a.ID),
		}
	}
	return listAppsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:         r.ID,
		AppID:      r.AppID,
		TesterID:   r.TesterID,
		TesterName: r.TesterName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

func toReviewListResponse(reviews []*domain.Review) listReviewsResponse {
	out := make([]reviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = toReviewResponse(r)
	}
	return listReviewsResponse{Data: out}
}
