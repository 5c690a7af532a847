package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
}

type MessageResponse struct {
	Message string            `json:"message"`
	Cleanup []CleanupResponse `json:"cleanup,omitempty"`
}

// CleanupResponse reports what happened to a released image.
type CleanupResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PaintingResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Artist      string           `json:"artist"`
	Category    *CategorySummary `json:"category,omitempty"`
	Price       float64          `json:"price"`
	Currency    string           `json:"currency"`
	Medium      string           `json:"medium,omitempty"`
	Dimensions  string           `json:"dimensions,omitempty"`
	Year        int64            `json:"year,omitempty"`
	IsAvailable bool             `json:"is_available"`
	IsFeatured  bool             `json:"is_featured"`
	Images      []string         `json:"images"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Cleanup []CleanupResponse `json:"cleanup,omitempty"`
}

type PaintingListResponse struct {
	Paintings []PaintingResponse `json:"paintings"`
	Total     int                `json:"total"`
}

type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Cleanup []CleanupResponse `json:"cleanup,omitempty"`
}

type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type BlogPostResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content,omitempty"`
	ContentHTML string     `json:"content_html,omitempty"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Cleanup []CleanupResponse `json:"cleanup,omitempty"`
}

type BlogListResponse struct {
	Posts []BlogPostResponse `json:"posts"`
}

type OrderResponse struct {
	ID            string    `json:"order_id"`
	PaintingID    string    `json:"painting_id"`
	PaintingTitle string    `json:"painting_title"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Message       string    `json:"message,omitempty"`
	Status        string    `json:"status"`
	AdminNotes    string    `json:"admin_notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactListResponse struct {
	Messages []ContactResponse `json:"messages"`
}

type GalleryItemResponse struct {
	URL        string       `json:"url"`
	Kind       string       `json:"kind"`
	Path       string       `json:"path,omitempty"`
	Size       int64        `json:"size,omitempty"`
	ModifiedAt *time.Time   `json:"modified_at,omitempty"`
	UsedBy     []ImageUsage `json:"used_by"`
}

type GalleryResponse struct {
	Items []GalleryItemResponse `json:"items"`
}

type UploadResponse struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
