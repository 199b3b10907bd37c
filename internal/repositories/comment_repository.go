package repositories

import (
	"errors"

	"github.com/mindnest/backend/internal/models"
	"gorm.io/gorm"
)

// ErrCommentNotFound indicates the comment does not exist or belongs to another user.
var ErrCommentNotFound = errors.New("comment not found")

// CommentRepository defines the interface for comment operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(commentID uint) (*models.Comment, error)
	GetByPostID(postID string, page, limit int) ([]models.Comment, int64, error)
	DeleteComment(commentID uint, authorID string) error
}

type postgresCommentRepository struct {
	db *gorm.DB
}

func NewPostgresCommentRepository(db *gorm.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

func (r *postgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *postgresCommentRepository) GetCommentByID(commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *postgresCommentRepository) GetByPostID(postID string, page, limit int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Where("post_id = ?", postID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&comments).Error

	return comments, total, err
}

func (r *postgresCommentRepository) DeleteComment(commentID uint, authorID string) error {
	res := r.db.Where("id = ? AND author_id = ?", commentID, authorID).Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
