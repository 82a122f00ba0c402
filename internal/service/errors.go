package service

import "errors"

var (
	// ErrInvalidJobID is returned when job ID is empty.
	ErrInvalidJobID = errors.New("invalid job id")

	// ErrInvalidTransporterID is returned when transporter ID is empty.
	ErrInvalidTransporterID = errors.New("invalid transporter id")

	// ErrInvalidStatus is returned when a requested status is not a valid advance target.
	ErrInvalidStatus = errors.New("invalid job status")

	// ErrInvalidTransition is returned when the job's current status does not allow the change.
	ErrInvalidTransition = errors.New("job status does not allow this transition")

	// ErrNotAssignedTransporter is returned when the actor is not the job's transporter.
	ErrNotAssignedTransporter = errors.New("transporter not assigned to this job")

	// ErrJobBusy is returned when another request holds the job lock.
	ErrJobBusy = errors.New("job is being updated by another request")

	// ErrInvalidLocation is returned when an address or its coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidLivestock is returned when livestock details are missing or invalid.
	ErrInvalidLivestock = errors.New("invalid livestock details")

	// ErrInvalidPrice is returned when a job price is negative.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidHistoryFilter is returned for an unknown job history filter.
	ErrInvalidHistoryFilter = errors.New("invalid job history filter")

	// ErrInvalidUserID is returned when user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidNotification is returned when a notification has no title or message.
	ErrInvalidNotification = errors.New("invalid notification")

	// ErrInvalidNotificationType is returned for an unknown notification type.
	ErrInvalidNotificationType = errors.New("invalid notification type")

	// ErrInvalidNotificationID is returned when notification ID is empty.
	ErrInvalidNotificationID = errors.New("invalid notification id")

	// ErrNotificationNotOwned is returned when a user touches someone else's notification.
	ErrNotificationNotOwned = errors.New("notification belongs to another user")

	// ErrInvalidAmount is returned when an earnings amount is negative.
	ErrInvalidAmount = errors.New("invalid earnings amount")

	// ErrInvalidTimeframe is returned for an unknown earnings timeframe.
	ErrInvalidTimeframe = errors.New("invalid timeframe")

	// ErrInvalidName is returned when a profile name is empty.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidPushToken is returned when a device token is empty.
	ErrInvalidPushToken = errors.New("invalid push token")
)
