// Package metrics は回帰モデルの評価指標を提供する
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/histgbm/pkg/errors"
)

// ComputeMSE はスライス同士の平均二乗誤差を計算する
//
// 長さが異なる場合は短い方に合わせ、空の場合は 0 を返す。
// 学習ループの損失記録など、エラー処理を挟みたくない経路で使う。
func ComputeMSE(yTrue, yPred []float64) float64 {
	n := len(yTrue)
	if len(yPred) < n {
		n = len(yPred)
	}
	if n == 0 {
		return 0
	}
	return sumSquaredDiff(yTrue[:n], yPred[:n]) / float64(n)
}

func sumSquaredDiff(a, b []float64) float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Dot(diff, diff)
}

func checkPair(op string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.NewValueError(op, "empty vector")
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	return nil
}

// MeanSquaredError はスライス入力の MSE を計算する
func MeanSquaredError(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MSE", yTrue, yPred); err != nil {
		return 0, err
	}
	return sumSquaredDiff(yTrue, yPred) / float64(len(yTrue)), nil
}

// MeanAbsoluteError はスライス入力の MAE を計算する
func MeanAbsoluteError(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MAE", yTrue, yPred); err != nil {
		return 0, err
	}
	// L1 距離 / n
	return floats.Distance(yTrue, yPred, 1) / float64(len(yTrue)), nil
}

// RSquared はスライス入力の決定係数を計算する
//
// yTrue に分散がない場合 R² は定義できないため UndefinedMetricWarning を出し、
// 予測が完全一致なら 1、それ以外は 0 を返す。
func RSquared(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("R2Score", yTrue, yPred); err != nil {
		return 0, err
	}
	mean := stat.Mean(yTrue, nil)
	var tss float64
	for _, v := range yTrue {
		tss += (v - mean) * (v - mean)
	}
	rss := sumSquaredDiff(yTrue, yPred)

	if tss == 0 {
		result := 0.0
		if rss == 0 {
			result = 1.0
		}
		errors.Warn(errors.NewUndefinedMetricWarning("r2_score", "constant yTrue", result))
		return result, nil
	}
	return 1 - rss/tss, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	return MeanSquaredError(rawVec(yTrue), rawVec(yPred))
}

// MSEMatrix は n×1 行列形式の入力に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("MSEMatrix", "empty matrix")
	}
	if rTrue != rPred || cTrue != cPred {
		return 0, errors.NewDimensionError("MSEMatrix", rTrue, rPred, 0)
	}
	if cTrue != 1 {
		return 0, errors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}

	return MeanSquaredError(mat.Col(nil, 0, yTrue), mat.Col(nil, 0, yPred))
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	return MeanAbsoluteError(rawVec(yTrue), rawVec(yPred))
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	return RSquared(rawVec(yTrue), rawVec(yPred))
}

// rawVec は VecDense を連続したスライスとして取り出す（コピー）
func rawVec(v *mat.VecDense) []float64 {
	if v == nil || v.Len() == 0 {
		return nil
	}
	return mat.Col(nil, 0, v)
}

// Evaluation は一つのターゲットに対する評価結果
type Evaluation struct {
	MSE      float64 `json:"mse"`
	RMSE     float64 `json:"rmse"`
	MAE      float64 `json:"mae"`
	R2       float64 `json:"r2"`
	Accuracy float64 `json:"accuracy"`
	Samples  int     `json:"samples"`
}

// RoundedAccuracy は予測値を最も近い整数に丸めたとき正解と一致する割合を返す
//
// ラベルがクラス番号として符号化されている場合の目安として使う。
func RoundedAccuracy(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("RoundedAccuracy", yTrue, yPred); err != nil {
		return 0, err
	}
	hits := 0
	for i := range yTrue {
		if math.Round(yPred[i]) == math.Round(yTrue[i]) {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue)), nil
}

// Evaluate は MSE / RMSE / MAE / R² / 丸め正解率をまとめて計算する
func Evaluate(yTrue, yPred []float64) (Evaluation, error) {
	mse, err := MeanSquaredError(yTrue, yPred)
	if err != nil {
		return Evaluation{}, err
	}
	mae, err := MeanAbsoluteError(yTrue, yPred)
	if err != nil {
		return Evaluation{}, err
	}
	r2, err := RSquared(yTrue, yPred)
	if err != nil {
		return Evaluation{}, err
	}
	acc, err := RoundedAccuracy(yTrue, yPred)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		MSE:      mse,
		RMSE:     math.Sqrt(mse),
		MAE:      mae,
		R2:       r2,
		Accuracy: acc,
		Samples:  len(yTrue),
	}, nil
}
