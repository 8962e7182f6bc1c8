package service

import (
	"context"

	"trustlink/internal/verification/models"
	"trustlink/pkg/domain"
)

func (s *RegistrySuite) TestReadsOfUnknownTypesReturnDefaults() {
	alice := principal(1)
	s.Require().NoError(s.service.StoreHash(s.as(alice), hash(9), 9))

	for _, code := range []uint8{7, 8, 255} {
		vtype := models.VerificationType(code)

		got, err := s.service.GetUserVerification(context.Background(), alice, vtype)
		s.Require().NoError(err)
		s.Equal(models.Entry{}, got)

		mine, err := s.service.GetMyVerification(s.as(alice), vtype)
		s.Require().NoError(err)
		s.Equal(models.Entry{}, mine)

		has, err := s.service.HasVerification(context.Background(), alice, vtype)
		s.Require().NoError(err)
		s.False(has)
	}
}

func (s *RegistrySuite) TestUnwrittenSlotReadsAsZero() {
	got, err := s.service.GetUserVerification(context.Background(), principal(5), models.TypeEmail)
	s.Require().NoError(err)
	s.Equal(models.Entry{}, got)
}

func (s *RegistrySuite) TestCompletionPercentage() {
	alice := principal(1)
	ctx := s.as(alice)

	expected := []uint8{0, 16, 33, 50, 66, 83, 100}
	pct, err := s.service.GetCompletionPercentage(context.Background(), alice)
	s.Require().NoError(err)
	s.Equal(expected[0], pct)

	for i := range models.PrimaryTypeCount {
		s.Require().NoError(s.service.StoreVerification(ctx, models.VerificationType(i), hash(1), 1))
		pct, err := s.service.GetCompletionPercentage(context.Background(), alice)
		s.Require().NoError(err)
		s.Equal(expected[i+1], pct, "after %d active", i+1)
	}

	s.Run("legacy document never counts", func() {
		bob := principal(2)
		s.Require().NoError(s.service.StoreHash(s.as(bob), hash(1), 1))
		pct, err := s.service.GetCompletionPercentage(context.Background(), bob)
		s.Require().NoError(err)
		s.Zero(pct)
	})
}

func (s *RegistrySuite) TestAllVerificationsListsOnlyActive() {
	alice := principal(1)
	ctx := s.as(alice)
	s.Require().NoError(s.service.StoreEmailVerification(ctx, hash(3), 30))
	s.Require().NoError(s.service.StoreAddressVerification(ctx, hash(1), 10))
	s.Require().NoError(s.service.StoreDeviceVerification(ctx, hash(2), 20))
	s.Require().NoError(s.service.DeactivateVerification(ctx, models.TypeDevice))

	all, err := s.service.GetUserAllVerifications(context.Background(), alice)
	s.Require().NoError(err)
	s.Equal([]models.VerificationType{models.TypeAddress, models.TypeEmail}, all.Types)
	s.Equal([]domain.DataHash{hash(1), hash(3)}, all.Hashes)
	s.Equal([]uint64{10, 30}, all.Timestamps)
	s.Equal([]bool{true, true}, all.Statuses)

	mine, err := s.service.GetMyAllVerifications(ctx)
	s.Require().NoError(err)
	s.Equal(all, mine)

	s.Run("includes the legacy slot", func() {
		s.Require().NoError(s.service.StoreHash(ctx, hash(6), 60))
		all, err := s.service.GetUserAllVerifications(context.Background(), alice)
		s.Require().NoError(err)
		s.Equal(models.TypeDocument, all.Types[len(all.Types)-1])
	})
}

func (s *RegistrySuite) TestVerificationStatus() {
	alice := principal(1)
	ctx := s.as(alice)
	s.Require().NoError(s.service.StoreIdentityVerification(ctx, hash(1), 1))
	s.Require().NoError(s.service.StoreTrustScore(ctx, hash(1), 1))
	s.Require().NoError(s.service.StoreHash(ctx, hash(1), 1))

	status, err := s.service.GetVerificationStatus(context.Background(), alice)
	s.Require().NoError(err)
	s.Equal(models.VerificationStatus{Identity: true, TrustScore: true}, status)
}

func (s *RegistrySuite) TestDocumentLegacyAPI() {
	alice := principal(1)
	ctx := s.as(alice)

	s.Run("hash document before any write is zero", func() {
		doc, err := s.service.HashDocument(ctx)
		s.Require().NoError(err)
		s.Equal(models.Document{}, doc)
	})

	s.Require().NoError(s.service.StoreHash(ctx, hash(7), 700))

	s.Run("hash document returns the active slot", func() {
		doc, err := s.service.HashDocument(ctx)
		s.Require().NoError(err)
		s.Equal(models.Document{DataHash: hash(7), Timestamp: 700}, doc)
	})

	s.Run("verify requires both fields", func() {
		ok, err := s.service.VerifyDocument(ctx, hash(7), 700)
		s.Require().NoError(err)
		s.True(ok)

		ok, err = s.service.VerifyDocument(ctx, hash(7), 701)
		s.Require().NoError(err)
		s.False(ok)

		ok, err = s.service.VerifyDocument(ctx, hash(8), 700)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Require().NoError(s.service.DeactivateVerification(ctx, models.TypeDocument))

	s.Run("inactive slot hides the document", func() {
		doc, err := s.service.HashDocument(ctx)
		s.Require().NoError(err)
		s.Equal(models.Document{}, doc)

		ok, err := s.service.VerifyDocument(ctx, hash(7), 700)
		s.Require().NoError(err)
		s.False(ok)
	})
}

func (s *RegistrySuite) TestStoredDocumentsFollowLedgerOrder() {
	alice, bob, carol := principal(1), principal(2), principal(3)
	s.Require().NoError(s.service.StoreHash(s.as(carol), hash(3), 3))
	s.Require().NoError(s.service.StoreEmailVerification(s.as(bob), hash(2), 2))
	s.Require().NoError(s.service.StoreHash(s.as(alice), hash(1), 1))

	docs, err := s.service.GetAllStoredHashesAndTimestamps(context.Background())
	s.Require().NoError(err)
	s.Equal([]domain.Principal{carol, alice}, docs.Principals)
	s.Equal([]domain.DataHash{hash(3), hash(1)}, docs.Hashes)
	s.Equal([]uint64{3, 1}, docs.Timestamps)
	s.Equal(uint64(3), s.totalUsers())
}

func (s *RegistrySuite) TestCurrentTimestampUsesRequestTime() {
	s.Equal(uint64(s.requestAt.Unix()), s.service.GetCurrentTimestamp(s.as(principal(1))))
}
