package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nimbusfeed/backend/internal/apperrors"
	"github.com/nimbusfeed/backend/internal/identity"
	"github.com/nimbusfeed/backend/internal/models"
	"github.com/nimbusfeed/backend/internal/store"
)

// LikeState is the per-toggle state of the like coordinator.
type LikeState int

const (
	// LikeIdle means no toggle is pending for the post.
	LikeIdle LikeState = iota
	// LikeOptimisticApplied means the local ledger is flipped but the
	// remote commit has not started.
	LikeOptimisticApplied
	// LikeCommitting means the remote update is in flight.
	LikeCommitting
	// LikeCommitted means the remote update succeeded; local state stands.
	LikeCommitted
	// LikeRolledBack means the remote update failed and the local ledger
	// was restored to its pre-toggle values.
	LikeRolledBack
)

// LikeObserver is notified of state transitions, typically to drive a UI.
type LikeObserver func(postID string, state LikeState)

// LikeCoordinator applies like/unlike toggles optimistically and reconciles
// them with the post store.
//
// The commit carries the full post-toggle ledger rather than a delta, because
// the backing store has no atomic increment. Two unserialized commits on the
// same post would race and lose an update, so the coordinator holds a per-post
// lock for the whole toggle: concurrent toggles on one post queue behind the
// in-flight commit.
type LikeCoordinator struct {
	posts   *store.PostStore
	log     *zap.Logger
	observe LikeObserver

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLikeCoordinator creates a new LikeCoordinator
func NewLikeCoordinator(posts *store.PostStore, log *zap.Logger) *LikeCoordinator {
	return &LikeCoordinator{
		posts: posts,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

// SetObserver registers a callback for like state transitions. Must be set
// before the first Toggle.
func (c *LikeCoordinator) SetObserver(fn LikeObserver) {
	c.observe = fn
}

// Toggle likes the post on behalf of the actor, or unlikes it when the actor
// already appears in its ledger. The passed post is mutated optimistically
// before the commit and restored to its pre-toggle state when the commit
// fails.
//
// The caller's copy may be stale: the commit re-reads the authoritative
// record under the per-post lock and applies the toggle to that ledger, so
// a full-replacement commit never erases a like committed since the caller
// read its copy. On success the caller's copy carries the committed ledger.
func (c *LikeCoordinator) Toggle(ctx context.Context, actor *identity.Actor, post *models.Post) error {
	if err := identity.Require(actor); err != nil {
		return err
	}

	lock := c.lockFor(post.ID)
	lock.Lock()
	defer lock.Unlock()

	snapshot := post.Clone()
	liking := !post.LikedByUser(actor.ID)
	if liking {
		post.Like(actor.ID)
	} else {
		post.Unlike(actor.ID)
	}
	c.notify(post.ID, LikeOptimisticApplied)

	c.notify(post.ID, LikeCommitting)
	current, err := c.posts.Get(ctx, post.ID)
	if err != nil {
		return c.rollback(post, snapshot, actor.ID, err)
	}
	if liking {
		current.Like(actor.ID)
	} else {
		current.Unlike(actor.ID)
	}
	if err := c.posts.UpdateLikes(ctx, post.ID, current.LikeCount, current.LikedBy); err != nil {
		return c.rollback(post, snapshot, actor.ID, err)
	}

	post.LikeCount = current.LikeCount
	post.LikedBy = current.LikedBy
	c.notify(post.ID, LikeCommitted)
	return nil
}

func (c *LikeCoordinator) rollback(post, snapshot *models.Post, userID string, err error) error {
	*post = *snapshot
	c.notify(post.ID, LikeRolledBack)
	c.log.Warn("like commit failed, rolled back",
		zap.String("post_id", post.ID),
		zap.String("user_id", userID),
		zap.Error(err))
	if apperrors.KindOf(err) != 0 {
		return err
	}
	return apperrors.Wrap(apperrors.KindRemote, "failed to update like status", err)
}

func (c *LikeCoordinator) lockFor(postID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock := c.locks[postID]
	if lock == nil {
		lock = &sync.Mutex{}
		c.locks[postID] = lock
	}
	return lock
}

func (c *LikeCoordinator) notify(postID string, state LikeState) {
	if c.observe != nil {
		c.observe(postID, state)
	}
}
