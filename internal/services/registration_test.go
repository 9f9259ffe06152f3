package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-user-registration/internal/models"
	"github.com/sbilibin2017/gw-user-registration/internal/repositories"
	"github.com/sbilibin2017/gw-user-registration/internal/services"
	"github.com/sbilibin2017/gw-user-registration/internal/validation"
)

func validRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Firstname:       "John",
		Lastname:        "Doe",
		Email:           "john@example.com",
		Username:        "johndoe123",
		Password:        "SecurePass@123",
		ConfirmPassword: "SecurePass@123",
		CountryCode:     "+1",
		MobileNumber:    "1234567890",
	}
}

func TestRegistrationService_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)

	svc := services.NewRegistrationService(mockReader, mockWriter, nil, false)

	req := validRequest()
	userID := uuid.New()

	mockReader.EXPECT().ExistsByUsername(gomock.Any(), "johndoe123").Return(false, nil)
	mockReader.EXPECT().ExistsByEmail(gomock.Any(), "john@example.com").Return(false, nil)
	mockReader.EXPECT().ExistsByMobile(gomock.Any(), "+1", "1234567890").Return(false, nil)
	mockWriter.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user models.UserDB) (uuid.UUID, error) {
			assert.Equal(t, "johndoe123", user.Username)
			assert.Equal(t, "john@example.com", user.Email)
			assert.NotEqual(t, "SecurePass@123", user.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("SecurePass@123")))
			return userID, nil
		})

	err := svc.Register(context.Background(), req)
	assert.NoError(t, err)
}

func TestRegistrationService_Register_ValidationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No repository expectations: an invalid payload must never reach storage.
	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)

	svc := services.NewRegistrationService(mockReader, mockWriter, nil, false)

	req := validRequest()
	req.Username = "jd"

	err := svc.Register(context.Background(), req)
	assert.Error(t, err)

	var fieldErrs validation.FieldErrors
	assert.True(t, errors.As(err, &fieldErrs))
	assert.Len(t, fieldErrs, 1)
	assert.Equal(t, []string{"body", "username"}, fieldErrs[0].Loc)
}

func TestRegistrationService_Register_Duplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		mockSetup func(m *services.MockUserReader)
		wantErr   error
	}{
		{
			name: "duplicate username",
			mockSetup: func(m *services.MockUserReader) {
				m.EXPECT().ExistsByUsername(gomock.Any(), "johndoe123").Return(true, nil)
			},
			wantErr: services.ErrUsernameExists,
		},
		{
			name: "duplicate email",
			mockSetup: func(m *services.MockUserReader) {
				m.EXPECT().ExistsByUsername(gomock.Any(), "johndoe123").Return(false, nil)
				m.EXPECT().ExistsByEmail(gomock.Any(), "john@example.com").Return(true, nil)
			},
			wantErr: services.ErrEmailExists,
		},
		{
			name: "duplicate mobile pair",
			mockSetup: func(m *services.MockUserReader) {
				m.EXPECT().ExistsByUsername(gomock.Any(), "johndoe123").Return(false, nil)
				m.EXPECT().ExistsByEmail(gomock.Any(), "john@example.com").Return(false, nil)
				m.EXPECT().ExistsByMobile(gomock.Any(), "+1", "1234567890").Return(true, nil)
			},
			wantErr: services.ErrMobileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			tt.mockSetup(mockReader)

			svc := services.NewRegistrationService(mockReader, mockWriter, nil, false)

			err := svc.Register(context.Background(), validRequest())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegistrationService_Register_ReaderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)

	svc := services.NewRegistrationService(mockReader, mockWriter, nil, false)

	dbErr := errors.New("db error")
	mockReader.EXPECT().ExistsByUsername(gomock.Any(), "johndoe123").Return(false, dbErr)

	err := svc.Register(context.Background(), validRequest())
	assert.ErrorIs(t, err, dbErr)
}

func TestRegistrationService_Register_InsertConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name    string
		field   string
		wantErr error
	}{
		{"username constraint", repositories.FieldUsername, services.ErrUsernameExists},
		{"email constraint", repositories.FieldEmail, services.ErrEmailExists},
		{"mobile constraint", repositories.FieldMobile, services.ErrMobileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)

			mockReader.EXPECT().ExistsByUsername(gomock.Any(), gomock.Any()).Return(false, nil)
			mockReader.EXPECT().ExistsByEmail(gomock.Any(), gomock.Any()).Return(false, nil)
			mockReader.EXPECT().ExistsByMobile(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
			mockWriter.EXPECT().
				Save(gomock.Any(), gomock.Any()).
				Return(uuid.Nil, &repositories.ConflictError{Field: tt.field})

			svc := services.NewRegistrationService(mockReader, mockWriter, nil, false)

			err := svc.Register(context.Background(), validRequest())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegistrationService_Register_WriterError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)

	mockReader.EXPECT().ExistsByUsername(gomock.Any(), gomock.Any()).Return(false, nil)
	mockReader.EXPECT().ExistsByEmail(gomock.Any(), gomock.Any()).Return(false, nil)
	mockReader.EXPECT().ExistsByMobile(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

	saveErr := errors.New("save error")
	mockWriter.EXPECT().Save(gomock.Any(), gomock.Any()).Return(uuid.Nil, saveErr)

	svc := services.NewRegistrationService(mockReader, mockWriter, nil, false)

	err := svc.Register(context.Background(), validRequest())
	assert.ErrorIs(t, err, saveErr)
}

func TestRegistrationService_Register_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	mockReader.EXPECT().ExistsByUsername(gomock.Any(), gomock.Any()).Return(false, nil)
	mockReader.EXPECT().ExistsByEmail(gomock.Any(), gomock.Any()).Return(false, nil)
	mockReader.EXPECT().ExistsByMobile(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	mockWriter.EXPECT().Save(gomock.Any(), gomock.Any()).Return(uuid.New(), nil)
	mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

	svc := services.NewRegistrationService(mockReader, mockWriter, mockKafka, false)

	err := svc.Register(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestRegistrationService_Register_PublishFailureIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	mockReader.EXPECT().ExistsByUsername(gomock.Any(), gomock.Any()).Return(false, nil)
	mockReader.EXPECT().ExistsByEmail(gomock.Any(), gomock.Any()).Return(false, nil)
	mockReader.EXPECT().ExistsByMobile(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	mockWriter.EXPECT().Save(gomock.Any(), gomock.Any()).Return(uuid.New(), nil)
	mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	svc := services.NewRegistrationService(mockReader, mockWriter, mockKafka, false)

	// Event publishing is best effort and must not fail the registration.
	err := svc.Register(context.Background(), validRequest())
	assert.NoError(t, err)
}
