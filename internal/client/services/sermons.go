package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/mutation"
	"github.com/dmitrijs2005/ministrysync/internal/client/upload"
)

// SermonService reads and edits sermons.
//
// Contract:
//   - reads are served from the cache within the staleness window;
//   - Create and Update upload a selected media file before the sermon
//     itself is saved, and abort the save if the upload fails;
//   - invalid input is rejected with one notification per field and never
//     reaches the network.
type SermonService interface {
	List(ctx context.Context, filter models.SermonFilter) (cache.Result[[]models.Sermon], error)
	All(ctx context.Context) (cache.Result[[]models.Sermon], error)
	Featured(ctx context.Context) (cache.Result[[]models.Sermon], error)
	Get(ctx context.Context, id string) (cache.Result[models.Sermon], error)
	Create(ctx context.Context, form Form[models.Sermon]) (models.Sermon, error)
	Update(ctx context.Context, form Form[models.Sermon]) (models.Sermon, error)
	Delete(ctx context.Context, sermon models.Sermon) error
	AddComment(ctx context.Context, sermonID string, c models.Comment) (models.Sermon, error)
	DeleteComment(ctx context.Context, sermonID, commentID string) (models.Sermon, error)
}

type sermonService struct {
	api   client.SermonAPI
	media upload.MediaStore
	r     *mutation.Runner
}

func NewSermonService(api client.SermonAPI, media upload.MediaStore, r *mutation.Runner) SermonService {
	return &sermonService{api: api, media: media, r: r}
}

func SermonListKey(f models.SermonFilter) cache.Key {
	return cache.NewKey(EntitySermons, "list", string(f.Type), f.Search)
}

func SermonKey(id string) cache.Key {
	return cache.NewKey(EntitySermons, "detail", id)
}

var (
	sermonsAllKey      = cache.NewKey(EntitySermons, "all")
	sermonsFeaturedKey = cache.NewKey(EntitySermons, "featured")
)

func (s *sermonService) List(ctx context.Context, f models.SermonFilter) (cache.Result[[]models.Sermon], error) {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return list(ctx, s.r, SermonListKey(f), func(ctx context.Context) ([]models.Sermon, error) {
		return s.api.List(ctx, q)
	})
}

func (s *sermonService) All(ctx context.Context) (cache.Result[[]models.Sermon], error) {
	return list(ctx, s.r, sermonsAllKey, s.api.All)
}

func (s *sermonService) Featured(ctx context.Context) (cache.Result[[]models.Sermon], error) {
	return list(ctx, s.r, sermonsFeaturedKey, s.api.Featured)
}

func (s *sermonService) Get(ctx context.Context, id string) (cache.Result[models.Sermon], error) {
	return cache.Query(ctx, s.r.Cache(), SermonKey(id), func(ctx context.Context) (models.Sermon, error) {
		return s.api.Get(ctx, id)
	})
}

func (s *sermonService) validate(form Form[models.Sermon]) error {
	err := check(form.Item, form.hasFile(), "mediaUrl")
	if form.hasFile() || form.Item.MediaURL != "" {
		return err
	}
	verr, ok := models.AsValidation(err)
	if !ok {
		if err != nil {
			return err
		}
		verr = &models.ValidationError{}
	}
	verr.Add("mediaUrl", "required")
	return verr
}

// createKeys are the lists a new sermon may appear in.
func createKeys(item models.Sermon) []cache.Key {
	keys := []cache.Key{
		SermonListKey(models.SermonFilter{}),
		SermonListKey(models.SermonFilter{Type: item.Type}),
		sermonsAllKey,
	}
	if item.Featured {
		keys = append(keys, sermonsFeaturedKey)
	}
	return keys
}

func (s *sermonService) Create(ctx context.Context, form Form[models.Sermon]) (models.Sermon, error) {
	if err := s.validate(form); err != nil {
		return models.Sermon{}, reject(s.r, err)
	}

	payload := form.Item
	payload.ID = ""
	provisional := payload.AsProvisional(mutation.TempID(), s.r.Now())

	m := mutation.Optimistic[[]models.Sermon, models.Sermon, models.Sermon]{
		Name: "create-sermon",
		Keys: createKeys(payload),
		Apply: func(old []models.Sermon, v models.Sermon) []models.Sermon {
			return mutation.Prepend(old, v)
		},
		Reconcile: func(cur []models.Sermon, v models.Sermon, res models.Sermon) []models.Sermon {
			return mutation.ReplaceByID(cur, v.ID, res)
		},
		Mutate: func(ctx context.Context, _ models.Sermon) (models.Sermon, error) {
			return createWithMedia(ctx, s.media, s.r, form, payload, s.api.Create)
		},
		SuccessMessage: "Sermon created successfully",
		ErrorMessage:   failure("create sermon"),
	}
	return mutation.Run(ctx, s.r, m, provisional)
}

func (s *sermonService) Update(ctx context.Context, form Form[models.Sermon]) (models.Sermon, error) {
	if form.Item.ID == "" {
		return models.Sermon{}, client.ErrNotFound
	}
	if err := s.validate(form); err != nil {
		return models.Sermon{}, reject(s.r, err)
	}

	payload := form.Item
	payload.Optimistic, payload.Updating = false, false
	edited := payload
	edited.Updating = true

	m := mutation.Optimistic[[]models.Sermon, models.Sermon, models.Sermon]{
		Name: "update-sermon",
		Keys: keysOf(s.r.Cache(), EntitySermons),
		Apply: func(old []models.Sermon, v models.Sermon) []models.Sermon {
			return mutation.ReplaceByID(old, v.ID, v)
		},
		Reconcile: func(cur []models.Sermon, v models.Sermon, res models.Sermon) []models.Sermon {
			return mutation.ReplaceByID(cur, v.ID, res)
		},
		Mutate: func(ctx context.Context, _ models.Sermon) (models.Sermon, error) {
			return updateWithMedia(ctx, s.media, s.r, form, payload, s.api.Update)
		},
		SuccessMessage: "Sermon updated successfully",
		ErrorMessage:   failure("update sermon"),
	}
	return mutation.Run(ctx, s.r, m, edited)
}

func (s *sermonService) Delete(ctx context.Context, sermon models.Sermon) error {
	m := mutation.Optimistic[[]models.Sermon, string, struct{}]{
		Name: "delete-sermon",
		Keys: keysOf(s.r.Cache(), EntitySermons),
		Apply: func(old []models.Sermon, id string) []models.Sermon {
			return mutation.RemoveByID(old, id)
		},
		Mutate: func(ctx context.Context, _ string) (struct{}, error) {
			return struct{}{}, deleteWithMedia(ctx, s.media, s.r, sermon, sermon.Type.MediaKind(), s.api.Delete)
		},
		SuccessMessage: "Sermon deleted successfully",
		ErrorMessage:   failure("delete sermon"),
	}
	_, err := mutation.Run(ctx, s.r, m, sermon.ID)
	return err
}

func (s *sermonService) AddComment(ctx context.Context, sermonID string, c models.Comment) (models.Sermon, error) {
	if err := models.Validate(c); err != nil {
		return models.Sermon{}, reject(s.r, err)
	}

	c.ID = mutation.TempID()
	c.CreatedAt = s.r.Now()

	m := mutation.Optimistic[[]models.Sermon, models.Comment, models.Sermon]{
		Name: "add-comment",
		Keys: keysOf(s.r.Cache(), EntitySermons),
		Apply: func(old []models.Sermon, v models.Comment) []models.Sermon {
			return mutation.MergeByID(old, sermonID, func(s models.Sermon) models.Sermon {
				s.Comments = append(append([]models.Comment(nil), s.Comments...), v)
				return s
			})
		},
		Reconcile: func(cur []models.Sermon, _ models.Comment, res models.Sermon) []models.Sermon {
			return mutation.ReplaceByID(cur, sermonID, res)
		},
		Mutate: func(ctx context.Context, v models.Comment) (models.Sermon, error) {
			return s.api.AddComment(ctx, sermonID, models.Comment{Name: v.Name, Text: v.Text})
		},
		SuccessMessage: "Comment added",
		ErrorMessage:   failure("add comment"),
	}
	return mutation.Run(ctx, s.r, m, c)
}

func (s *sermonService) DeleteComment(ctx context.Context, sermonID, commentID string) (models.Sermon, error) {
	m := mutation.Optimistic[[]models.Sermon, string, models.Sermon]{
		Name: "delete-comment",
		Keys: keysOf(s.r.Cache(), EntitySermons),
		Apply: func(old []models.Sermon, id string) []models.Sermon {
			return mutation.MergeByID(old, sermonID, func(s models.Sermon) models.Sermon {
				s.Comments = mutation.RemoveByID(s.Comments, id)
				return s
			})
		},
		Reconcile: func(cur []models.Sermon, _ string, res models.Sermon) []models.Sermon {
			return mutation.ReplaceByID(cur, sermonID, res)
		},
		Mutate: func(ctx context.Context, id string) (models.Sermon, error) {
			return s.api.DeleteComment(ctx, sermonID, id)
		},
		SuccessMessage: "Comment deleted",
		ErrorMessage:   failure("delete comment"),
	}
	return mutation.Run(ctx, s.r, m, commentID)
}

// failure formats the notification of a failed mutation.
func failure(action string) func(error) string {
	return func(err error) string {
		if errors.Is(err, upload.ErrUpload) {
			return "Media upload failed: " + strings.TrimPrefix(err.Error(), upload.ErrUpload.Error()+": ")
		}
		return "Failed to " + action + ": " + client.Message(err)
	}
}
