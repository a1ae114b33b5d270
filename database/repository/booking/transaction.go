package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"kree/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateFromProposal runs the booking-creation transaction. The request
// update is conditional on the request still being open: when two booking
// attempts race on the same request, exactly one matches, the other aborts
// with ErrRequestNotOpen and writes nothing.
func (r *MongoBookingRepo) CreateFromProposal(ctx context.Context, booking *models.Booking) error {
	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}

		// Claim the request. Matches only while the request is still open.
		reqFilter := bson.M{
			"id":     booking.Request,
			"status": bson.M{"$in": models.RequestOpenStatuses},
		}
		reqUpdate := bson.M{"$set": bson.M{
			"status":           models.RequestStatusOncoming,
			"acceptedProposal": booking.Proposal,
			"updatedAt":        now,
		}}
		res, err := r.requestColl.UpdateOne(sc, reqFilter, reqUpdate)
		if err != nil {
			return fmt.Errorf("claim request failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrRequestNotOpen
		}

		propUpdate := bson.M{"$set": bson.M{
			"status":    models.ProposalStatusAccepted,
			"updatedAt": now,
		}}
		res, err = r.proposalColl.UpdateOne(sc, bson.M{"id": booking.Proposal}, propUpdate)
		if err != nil {
			return fmt.Errorf("accept proposal failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("proposal %s not found", booking.Proposal)
		}

		siblingFilter := bson.M{
			"request": booking.Request,
			"id":      bson.M{"$ne": booking.Proposal},
			"status":  models.ProposalStatusPending,
		}
		siblingUpdate := bson.M{"$set": bson.M{
			"status":    models.ProposalStatusRejected,
			"updatedAt": now,
		}}
		if _, err := r.proposalColl.UpdateMany(sc, siblingFilter, siblingUpdate); err != nil {
			return fmt.Errorf("reject sibling proposals failed: %w", err)
		}

		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrRequestNotOpen {
			return err
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}
