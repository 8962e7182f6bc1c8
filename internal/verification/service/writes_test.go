package service

import (
	"context"
	"errors"

	"trustlink/internal/verification/models"
	"trustlink/pkg/domain"
	dErrors "trustlink/pkg/domain-errors"
)

func (s *RegistrySuite) TestStoreVerification_RoundTrip() {
	alice := principal(1)
	ctx := s.as(alice)

	for _, vtype := range models.AllTypes()[:models.PrimaryTypeCount] {
		s.Run(vtype.String(), func() {
			h := hash(byte(vtype) + 1)
			ts := uint64(1000 + int(vtype))
			s.Require().NoError(s.service.StoreVerification(ctx, vtype, h, ts))

			got, err := s.service.GetUserVerification(context.Background(), alice, vtype)
			s.Require().NoError(err)
			s.Equal(models.Entry{DataHash: h, Timestamp: ts, IsActive: true}, got)
		})
	}
}

func (s *RegistrySuite) TestStoreVerification_RejectsUnstorableTypes() {
	alice := principal(1)
	ctx := s.as(alice)

	for _, code := range []uint8{6, 7, 200, 255} {
		err := s.service.StoreVerification(ctx, models.VerificationType(code), hash(1), 1)
		s.Require().Error(err)
		s.ErrorIs(err, models.ErrInvalidVerificationType)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	}

	s.Zero(s.totalUsers())
	s.Empty(s.ledger())
	entries, err := s.store.ListEntries(context.Background(), alice)
	s.Require().NoError(err)
	s.False(models.HasAnyActive(entries))
	s.Empty(s.auditActions())
}

func (s *RegistrySuite) TestNamedWrappersFixTheirType() {
	alice := principal(1)
	ctx := s.as(alice)

	wrappers := []struct {
		vtype models.VerificationType
		store func(context.Context, domain.DataHash, uint64) error
	}{
		{models.TypeIdentity, s.service.StoreIdentityVerification},
		{models.TypeAddress, s.service.StoreAddressVerification},
		{models.TypeDevice, s.service.StoreDeviceVerification},
		{models.TypeEmail, s.service.StoreEmailVerification},
		{models.TypeCommunity, s.service.StoreCommunityVerification},
		{models.TypeTrustScore, s.service.StoreTrustScore},
	}
	for i, w := range wrappers {
		s.Require().NoError(w.store(ctx, hash(byte(i+1)), uint64(i+1)))
		has, err := s.service.HasVerification(ctx, alice, w.vtype)
		s.Require().NoError(err)
		s.True(has, w.vtype.String())
	}
}

func (s *RegistrySuite) TestFirstWriteRegistersPrincipalOnce() {
	alice, bob := principal(1), principal(2)

	s.Require().NoError(s.service.StoreEmailVerification(s.as(alice), hash(1), 1))
	s.Equal(uint64(1), s.totalUsers())
	s.Equal([]domain.Principal{alice}, s.ledger())

	s.Run("second type does not re-register", func() {
		s.Require().NoError(s.service.StoreDeviceVerification(s.as(alice), hash(2), 2))
		s.Require().NoError(s.service.StoreHash(s.as(alice), hash(3), 3))
		s.Equal(uint64(1), s.totalUsers())
		s.Equal([]domain.Principal{alice}, s.ledger())
	})

	s.Run("overwrite does not re-register", func() {
		s.Require().NoError(s.service.StoreEmailVerification(s.as(alice), hash(4), 4))
		s.Equal(uint64(1), s.totalUsers())
	})

	s.Run("another principal is appended after", func() {
		s.Require().NoError(s.service.StoreHash(s.as(bob), hash(5), 5))
		s.Equal(uint64(2), s.totalUsers())
		s.Equal([]domain.Principal{alice, bob}, s.ledger())
	})

	s.Equal(uint64(len(s.ledger())), s.totalUsers())
}

func (s *RegistrySuite) TestDeactivate() {
	alice := principal(1)
	ctx := s.as(alice)
	s.Require().NoError(s.service.StoreHash(ctx, hash(6), 66))

	s.Run("keeps ledger and counter", func() {
		s.Require().NoError(s.service.DeactivateVerification(ctx, models.TypeDocument))
		s.Equal(uint64(1), s.totalUsers())
		s.Equal([]domain.Principal{alice}, s.ledger())

		docs, err := s.service.GetAllStoredHashesAndTimestamps(context.Background())
		s.Require().NoError(err)
		s.Empty(docs.Principals)
	})

	s.Run("keeps stale hash and timestamp", func() {
		got, err := s.service.GetUserVerification(context.Background(), alice, models.TypeDocument)
		s.Require().NoError(err)
		s.Equal(models.Entry{DataHash: hash(6), Timestamp: 66}, got)
	})

	s.Run("accepts the legacy slot and rejects beyond it", func() {
		err := s.service.DeactivateVerification(ctx, models.VerificationType(7))
		s.ErrorIs(err, models.ErrInvalidVerificationType)
	})

	s.Run("unwritten slot is a no-op", func() {
		s.Require().NoError(s.service.DeactivateVerification(ctx, models.TypeCommunity))
		got, err := s.service.GetMyVerification(ctx, models.TypeCommunity)
		s.Require().NoError(err)
		s.Equal(models.Entry{}, got)
	})
}

func (s *RegistrySuite) TestReactivationAfterFullDeactivation() {
	alice := principal(1)
	ctx := s.as(alice)
	s.Require().NoError(s.service.StoreAddressVerification(ctx, hash(1), 10))
	s.Require().NoError(s.service.DeactivateVerification(ctx, models.TypeAddress))

	s.Require().NoError(s.service.StoreAddressVerification(ctx, hash(2), 20))

	got, err := s.service.GetMyVerification(ctx, models.TypeAddress)
	s.Require().NoError(err)
	s.Equal(models.Entry{DataHash: hash(2), Timestamp: 20, IsActive: true}, got)
	s.Equal(uint64(1), s.totalUsers())
	s.Equal([]domain.Principal{alice}, s.ledger())
}

func (s *RegistrySuite) TestWritesRequireCaller() {
	err := s.service.StoreEmailVerification(context.Background(), hash(1), 1)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	err = s.service.DeactivateVerification(context.Background(), models.TypeEmail)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *RegistrySuite) TestAuditTrail() {
	alice := principal(1)
	ctx := s.as(alice)

	s.Require().NoError(s.service.StoreIdentityVerification(ctx, hash(1), 1))
	s.Require().NoError(s.service.StoreHash(ctx, hash(2), 2))
	s.Require().NoError(s.service.DeactivateVerification(ctx, models.TypeIdentity))

	s.Equal([]string{
		"registry_user_added",
		"verification_stored",
		"document_stored",
		"verification_deactivated",
	}, s.auditActions())

	events, err := s.auditLog.ListByPrincipal(context.Background(), alice)
	s.Require().NoError(err)
	s.Require().Len(events, 4)
	stored := events[1]
	s.Equal("identity", stored.VerificationType)
	s.Equal(hash(1).String(), stored.DataHash)
	s.Equal("req-test", stored.RequestID)
	s.Equal(s.requestAt, stored.Timestamp)
	s.Empty(events[3].DataHash)
}

func (s *RegistrySuite) TestCancelledContextCommitsNothing() {
	alice := principal(1)
	ctx, cancel := context.WithCancel(s.as(alice))
	cancel()

	err := s.service.StoreEmailVerification(ctx, hash(1), 1)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	s.True(errors.Is(err, context.Canceled))
	s.Zero(s.totalUsers())
}
