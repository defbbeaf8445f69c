package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func friendStatus(t *testing.T, router *gin.Engine, token string, otherID uint) string {
	t.Helper()

	rr := doJSON(router, http.MethodGet, fmt.Sprintf("/api/friends/status/%d", otherID), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var response map[string]string
	decodeBody(t, rr, &response)
	return response["status"]
}

func TestSendRequestToSelf(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	user, token := createTestUser(t, "loner")

	rr := doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", user.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSendRequestUnknownTarget(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, token := createTestUser(t, "hopeful")

	rr := doJSON(router, http.MethodPost, "/api/friends/424242/request", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDuplicateRequestConflictsBothDirections(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	alice, aliceToken := createTestUser(t, "alice")
	bob, bobToken := createTestUser(t, "bob")

	rr := doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", bob.ID), aliceToken, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// The reverse direction hits the same unordered pair.
	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", alice.ID), bobToken, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAcceptTransitionsToFriendsSymmetrically(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	alice, aliceToken := createTestUser(t, "alice")
	bob, bobToken := createTestUser(t, "bob")

	rr := doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	assert.Equal(t, "request_sent", friendStatus(t, router, aliceToken, bob.ID))
	assert.Equal(t, "request_received", friendStatus(t, router, bobToken, alice.ID))

	// The path ID is the requester, so only the recipient can accept.
	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/accept", bob.ID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/accept", alice.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "friends", friendStatus(t, router, aliceToken, bob.ID))
	assert.Equal(t, "friends", friendStatus(t, router, bobToken, alice.ID))
}

func TestRejectDeletesPendingRequest(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	alice, aliceToken := createTestUser(t, "alice")
	bob, bobToken := createTestUser(t, "bob")

	rr := doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/reject", alice.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "not_friends", friendStatus(t, router, aliceToken, bob.ID))

	// Rejecting again is a no-op.
	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/reject", alice.ID), bobToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCancelOutgoingRequest(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	_, aliceToken := createTestUser(t, "alice")
	bob, _ := createTestUser(t, "bob")

	rr := doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/friends/requests/%d", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "not_friends", friendStatus(t, router, aliceToken, bob.ID))

	// After cancellation a fresh request goes through again.
	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", bob.ID), aliceToken, nil)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestRemoveFriendEitherDirection(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	alice, aliceToken := createTestUser(t, "alice")
	bob, bobToken := createTestUser(t, "bob")

	rr := doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/accept", alice.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// The recipient removes the friendship even though the requester
	// owns the row.
	rr = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/friends/%d", alice.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "not_friends", friendStatus(t, router, aliceToken, bob.ID))
	assert.Equal(t, "not_friends", friendStatus(t, router, bobToken, alice.ID))
}

func TestGetFriendsUnionsBothDirections(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	me, myToken := createTestUser(t, "central")
	requester, requesterToken := createTestUser(t, "requester")
	recipient, recipientToken := createTestUser(t, "recipient")
	pendingOnly, _ := createTestUser(t, "pending_only")

	// requester -> me, accepted by me.
	rr := doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", me.ID), requesterToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/accept", requester.ID), myToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// me -> recipient, accepted by them.
	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", recipient.ID), myToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/accept", me.ID), recipientToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// me -> pendingOnly stays pending and must not appear.
	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", pendingOnly.ID), myToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(router, http.MethodGet, "/api/friends", myToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var friends []UserSummary
	decodeBody(t, rr, &friends)
	require.Len(t, friends, 2)

	names := []string{friends[0].Username, friends[1].Username}
	assert.Contains(t, names, "requester")
	assert.Contains(t, names, "recipient")
}

func TestGetFriendRequestsGroupsByDirection(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	me, myToken := createTestUser(t, "central")
	_, incomingToken := createTestUser(t, "incoming_user")
	outgoing, _ := createTestUser(t, "outgoing_user")

	rr := doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", me.ID), incomingToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = doJSON(router, http.MethodPost, fmt.Sprintf("/api/friends/%d/request", outgoing.ID), myToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(router, http.MethodGet, "/api/friends/requests", myToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var response FriendRequestsResponse
	decodeBody(t, rr, &response)
	require.Len(t, response.Incoming, 1)
	require.Len(t, response.Outgoing, 1)
	assert.Equal(t, "incoming_user", response.Incoming[0].User.Username)
	assert.Equal(t, "outgoing_user", response.Outgoing[0].User.Username)
}
