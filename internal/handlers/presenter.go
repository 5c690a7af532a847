package handlers

import (
	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/services"
)

// presenter converts stored entities into responses with every image
// reference resolved to a fetchable URL.
type presenter struct {
	resolver *imageref.Resolver
}

func (p presenter) image(value, kind string, dir imageref.Dir) string {
	return p.resolver.DisplayRef(p.resolver.Restore(value, kind), dir)
}

func (p presenter) painting(m *models.Painting, categories map[string]*models.Category) models.PaintingResponse {
	resp := models.PaintingResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Artist:      m.Artist,
		Price:       float64(m.PriceCents) / 100,
		Currency:    m.Currency,
		Medium:      m.Medium,
		Dimensions:  m.Dimensions,
		IsAvailable: m.IsAvailable,
		IsFeatured:  m.IsFeatured,
		Images:      make([]string, 0, len(m.Images)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Year.Valid {
		resp.Year = m.Year.Int64
	}
	if m.CategoryID.Valid {
		if cat, ok := categories[m.CategoryID.String]; ok {
			resp.Category = &models.CategorySummary{ID: cat.ID, Name: cat.Name, Slug: cat.Slug}
		} else {
			resp.Category = &models.CategorySummary{ID: m.CategoryID.String}
		}
	}
	for _, img := range m.Images {
		resp.Images = append(resp.Images, p.image(img.URL, img.Kind, imageref.DirUploads))
	}
	return resp
}

func (p presenter) category(m *models.Category) models.CategoryResponse {
	return models.CategoryResponse{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		Image:       p.image(m.ImageURL, m.ImageKind, imageref.DirUploads),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (p presenter) blogPost(m *models.BlogPost, html string, withContent bool) models.BlogPostResponse {
	resp := models.BlogPostResponse{
		ID:         m.ID,
		Title:      m.Title,
		Slug:       m.Slug,
		Excerpt:    m.Excerpt,
		Author:     m.Author,
		Tags:       services.SplitTags(m.Tags),
		CoverImage: p.image(m.CoverImage, m.CoverImageKind, imageref.DirBlogs),
		Published:  m.Published,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.PublishedAt.Valid {
		t := m.PublishedAt.Time
		resp.PublishedAt = &t
	}
	if withContent {
		resp.Content = m.Content
		resp.ContentHTML = html
	}
	return resp
}

func orderResponse(m *models.Order) models.OrderResponse {
	return models.OrderResponse{
		ID:            m.ID,
		PaintingID:    m.PaintingID,
		PaintingTitle: m.PaintingTitle,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		CustomerPhone: m.CustomerPhone,
		Message:       m.Message,
		Status:        m.Status,
		AdminNotes:    m.AdminNotes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func contactResponse(m *models.ContactMessage) models.ContactResponse {
	return models.ContactResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func cleanupResponse(report services.CleanupReport) []models.CleanupResponse {
	if len(report) == 0 {
		return nil
	}
	out := make([]models.CleanupResponse, 0, len(report))
	for _, o := range report {
		r := models.CleanupResponse{Reference: o.Ref.Value, Status: string(o.Status)}
		if o.Err != nil {
			r.Error = o.Err.Error()
		}
		out = append(out, r)
	}
	return out
}
