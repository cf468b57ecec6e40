package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"viral_feed/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var postColumns = []string{
	"batch_id", "id", "title", "excerpt", "category", "author", "read_time",
	"image_url", "views", "publish_date", "type", "position",
}

type postRow struct {
	BatchID     string `db:"batch_id"`
	ID          string `db:"id"`
	Title       string `db:"title"`
	Excerpt     string `db:"excerpt"`
	Category    string `db:"category"`
	Author      string `db:"author"`
	ReadTime    string `db:"read_time"`
	ImageURL    string `db:"image_url"`
	Views       string `db:"views"`
	PublishDate string `db:"publish_date"`
	Type        string `db:"type"`
	Position    int    `db:"position"`
}

func (r postRow) post() domain.Post {
	return domain.Post{
		ID:          r.ID,
		BatchID:     r.BatchID,
		Title:       r.Title,
		Excerpt:     r.Excerpt,
		Category:    r.Category,
		Author:      r.Author,
		ReadTime:    r.ReadTime,
		ImageURL:    r.ImageURL,
		Views:       r.Views,
		PublishDate: r.PublishDate,
		Type:        domain.PostType(r.Type),
	}
}

type PostStore struct {
	db *sqlx.DB
}

func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{db: db}
}

// UpsertBatch writes posts in one statement, keeping batch order in the
// position column. Rows are keyed by (batch_id, id), so earlier batches that
// reuse the same ids are kept. A repeated key within the batch keeps its
// first occurrence.
func (s *PostStore) UpsertBatch(ctx context.Context, posts []domain.Post) (int, error) {
	posts = uniqueByKey(posts)
	if len(posts) == 0 {
		return 0, nil
	}

	insert := psql.Insert("posts").Columns(postColumns...)
	for i, p := range posts {
		insert = insert.Values(
			p.BatchID, p.ID, p.Title, p.Excerpt, p.Category, p.Author, p.ReadTime,
			p.ImageURL, p.Views, p.PublishDate, string(p.Type), i,
		)
	}

	query, args, err := insert.Suffix(`
		ON CONFLICT (batch_id, id) DO UPDATE SET
			title = EXCLUDED.title,
			excerpt = EXCLUDED.excerpt,
			category = EXCLUDED.category,
			author = EXCLUDED.author,
			read_time = EXCLUDED.read_time,
			image_url = EXCLUDED.image_url,
			views = EXCLUDED.views,
			publish_date = EXCLUDED.publish_date,
			type = EXCLUDED.type,
			position = EXCLUDED.position,
			updated_at = NOW()`).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build upsert: %w", err)
	}

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Recent returns up to limit posts, latest batch first and batch order
// within a batch. Saved content is attached to its post.
func (s *PostStore) Recent(ctx context.Context, limit int) ([]domain.Post, error) {
	if limit <= 0 {
		return []domain.Post{}, nil
	}

	query, args, err := psql.Select(postColumns...).
		From("posts").
		OrderBy("updated_at DESC", "position ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	exec := GetExecutor(ctx, s.db)

	var rows []postRow
	if err := sqlx.SelectContext(ctx, exec, &rows, query, args...); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, len(rows))
	keys := make([]string, len(rows))
	for i, r := range rows {
		posts[i] = r.post()
		keys[i] = posts[i].Key()
	}

	contents, err := loadContents(ctx, exec, keys)
	if err != nil {
		return nil, fmt.Errorf("load contents: %w", err)
	}

	for i := range posts {
		posts[i].Content = contents[keys[i]]
	}
	return posts, nil
}

func uniqueByKey(posts []domain.Post) []domain.Post {
	seen := make(map[string]struct{}, len(posts))
	unique := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.Key()]; ok {
			continue
		}
		seen[p.Key()] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}
