package model

import "errors"

var (
	// ErrInvalidStake - ставка не положительная или больше баланса
	ErrInvalidStake = errors.New("invalid stake")
	// ErrInvalidAmount - сумма операции леджера вне допустимого диапазона
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds - списание больше баланса
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrIllegalTransition - действие не разрешено в текущем состоянии игры
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrSessionInUse - у аккаунта уже есть активная игра
	ErrSessionInUse = errors.New("session in use")

	ErrSessionNotFound = errors.New("session not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrInvalidOpponent = errors.New("invalid opponent")

	// ErrInvariantViolation - нарушен инвариант баланса (отрицательный баланс, двойное начисление).
	// Фатальная ошибка, никогда не исправляется молча
	ErrInvariantViolation = errors.New("balance invariant violation")
)
