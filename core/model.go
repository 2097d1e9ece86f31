// Package core はhistgbmのモデルが満たすインターフェースを定義する
package core

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer は決定係数などでモデルを評価できるインターフェース
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Persister はファイルへの保存と復元ができるモデルのインターフェース
type Persister interface {
	Save(path string) error
	Load(path string) error
}

// Regressor は回帰モデルの基本インターフェース
type Regressor interface {
	Fitter
	Predictor
	Scorer
	Persister

	// IsFitted はモデルが学習済みかどうかを返す
	IsFitted() bool
}
