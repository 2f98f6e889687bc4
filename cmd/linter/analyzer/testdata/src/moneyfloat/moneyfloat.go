package moneyfloat

type account struct {
	Balance float64 // want `Balance is declared as float64, use fixed-point model.Money for currency amounts`
	Clicks  int64
}

type payout struct {
	AmountCents int64
	rewardRate  float32 // want `rewardRate is declared as float32, use fixed-point model.Money for currency amounts`
}

func credit(balance float64) float64 { // want `balance is declared as float64, use fixed-point model.Money for currency amounts`
	var rewardPerClick = 0.2 // want `rewardPerClick is declared as float64, use fixed-point model.Money for currency amounts`
	return balance + rewardPerClick
}

func resolve(ratio float64) float64 {
	var weight = 1.5
	return ratio * weight
}
